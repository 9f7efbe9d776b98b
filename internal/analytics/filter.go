package analytics

import (
	"strings"

	"github.com/reviewlane/reviewlane/pkg/models"
)

// skipBasenames are exact file names that are never worth reviewing.
var skipBasenames = map[string]bool{
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
	"composer.lock":     true,
	"Gemfile.lock":      true,
	"go.sum":            true,
	"Cargo.lock":        true,
	"poetry.lock":       true,
}

// skipSuffixes mark minified assets, sourcemaps, generated files, and
// binary image/font formats.
var skipSuffixes = []string{
	".min.js",
	".min.css",
	".map",
	".pb.go",
	".generated.go",
	".generated.ts",
	".snap",
	".png",
	".jpg",
	".jpeg",
	".gif",
	".ico",
	".webp",
	".pdf",
	".woff",
	".woff2",
	".ttf",
	".eot",
	".otf",
}

// skipDirFragments mark vendored and build-output trees anywhere in the path.
var skipDirFragments = []string{
	"node_modules/",
	"vendor/",
	"dist/",
	"build/",
	"out/",
	"target/",
	".next/",
	"__pycache__/",
}

// ShouldReview reports whether a path is worth sending to review. This is a
// denylist, not an allowlist, so new source file types are reviewable by
// default.
func ShouldReview(filename string) bool {
	base := filename
	if idx := strings.LastIndex(filename, "/"); idx >= 0 {
		base = filename[idx+1:]
	}
	if skipBasenames[base] {
		return false
	}

	lower := strings.ToLower(filename)
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}
	for _, fragment := range skipDirFragments {
		if strings.HasPrefix(lower, fragment) || strings.Contains(lower, "/"+fragment) {
			return false
		}
	}

	return true
}

// FilterReviewable drops binary files and files failing ShouldReview.
// Applying it twice yields the same result as applying it once.
func FilterReviewable(files []models.FileDiff) []models.FileDiff {
	result := make([]models.FileDiff, 0, len(files))
	for _, f := range files {
		if f.IsBinary || !ShouldReview(f.Filename) {
			continue
		}
		result = append(result, f)
	}
	return result
}
