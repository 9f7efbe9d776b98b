package prcontext

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/reviewlane/reviewlane/pkg/models"
)

// Fixed filename substrings per affected area. Iterated in a stable order
// so the derived set is deterministic.
var affectedAreaOrder = []string{
	"API", "Authentication", "Database", "UI", "Tests", "Configuration", "Security", "Documentation",
}

var affectedAreaKeywords = map[string][]string{
	"API":            {"api", "endpoint", "route", "controller", "handler"},
	"Authentication": {"auth", "login", "session", "oauth"},
	"Database":       {"database", "migration", "schema", "sql", "/db/"},
	"UI":             {"component", "view", "page", "/ui/", "frontend", ".css", ".html"},
	"Tests":          {"test", "spec", "__tests__"},
	"Configuration":  {"config", ".env", "settings", ".yml", ".yaml", ".toml"},
	"Security":       {"security", "crypto", "permission", "sanitiz"},
	"Documentation":  {".md", "docs/", "readme"},
}

var sensitivePatterns = []string{
	"auth", "security", "secret", "token", "key", "credential", "password", ".env", "config",
}

const (
	largeChangeFiles     = 10
	largeChangeVolume    = 500
	deepReviewComplexity = 70
)

func deriveMetadata(files []models.FileDiff, stats models.DiffStats, overallComplexity float64) models.ContextMetadata {
	meta := models.ContextMetadata{
		Languages:     extensionSet(files),
		AffectedAreas: affectedAreas(files),
	}

	meta.IsLargeChange = stats.TotalFiles > largeChangeFiles || stats.TotalChanges > largeChangeVolume

	for _, f := range files {
		lower := strings.ToLower(f.Filename)
		for _, pattern := range sensitivePatterns {
			if strings.Contains(lower, pattern) {
				meta.HasSensitiveFiles = true
				break
			}
		}
		if meta.HasSensitiveFiles {
			break
		}
	}

	meta.RequiresDeepReview = meta.IsLargeChange ||
		meta.HasSensitiveFiles ||
		overallComplexity > deepReviewComplexity ||
		containsAny(meta.AffectedAreas, "Security", "Authentication", "Database")

	return meta
}

// extensionSet collects the unique file extensions in play, extension-less
// files contributing their base name.
func extensionSet(files []models.FileDiff) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range files {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Filename)), ".")
		if ext == "" {
			ext = filepath.Base(f.Filename)
		}
		if !seen[ext] {
			seen[ext] = true
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

func affectedAreas(files []models.FileDiff) []string {
	matched := make(map[string]bool)
	for _, f := range files {
		lower := strings.ToLower(f.Filename)
		for area, keywords := range affectedAreaKeywords {
			if matched[area] {
				continue
			}
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					matched[area] = true
					break
				}
			}
		}
	}

	var out []string
	for _, area := range affectedAreaOrder {
		if matched[area] {
			out = append(out, area)
		}
	}
	return out
}

func containsAny(haystack []string, needles ...string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}
