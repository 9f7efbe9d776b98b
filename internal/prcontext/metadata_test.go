package prcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reviewlane/reviewlane/pkg/models"
)

func filesNamed(names ...string) []models.FileDiff {
	out := make([]models.FileDiff, len(names))
	for i, n := range names {
		out[i] = models.FileDiff{Filename: n, Status: models.StatusModified}
	}
	return out
}

func TestDeriveMetadataLargeChange(t *testing.T) {
	stats := models.DiffStats{TotalFiles: 15, TotalChanges: 600}
	meta := deriveMetadata(filesNamed("pkg/a.go"), stats, 0)

	assert.True(t, meta.IsLargeChange)
	assert.True(t, meta.RequiresDeepReview)
}

func TestDeriveMetadataSmallChange(t *testing.T) {
	stats := models.DiffStats{TotalFiles: 2, TotalChanges: 20}
	meta := deriveMetadata(filesNamed("pkg/math.go"), stats, 10)

	assert.False(t, meta.IsLargeChange)
	assert.False(t, meta.HasSensitiveFiles)
	assert.False(t, meta.RequiresDeepReview)
}

func TestDeriveMetadataSensitiveFiles(t *testing.T) {
	stats := models.DiffStats{TotalFiles: 1, TotalChanges: 4}
	meta := deriveMetadata(filesNamed("src/auth/session.ts"), stats, 0)

	assert.True(t, meta.HasSensitiveFiles)
	assert.Contains(t, meta.AffectedAreas, "Authentication")
	assert.True(t, meta.RequiresDeepReview)
}

func TestDeriveMetadataAffectedAreas(t *testing.T) {
	files := filesNamed(
		"internal/api/routes.go",
		"migrations/001_init.sql",
		"web/components/Button.tsx",
		"internal/api/routes_test.go",
		"docs/setup.md",
	)
	stats := models.DiffStats{TotalFiles: len(files), TotalChanges: 30}
	meta := deriveMetadata(files, stats, 0)

	assert.Equal(t, []string{"API", "Database", "UI", "Tests", "Documentation"}, meta.AffectedAreas)
	// Database involvement alone forces a deep review.
	assert.True(t, meta.RequiresDeepReview)
}

func TestDeriveMetadataHighComplexity(t *testing.T) {
	stats := models.DiffStats{TotalFiles: 1, TotalChanges: 10}
	meta := deriveMetadata(filesNamed("pkg/math.go"), stats, 80)
	assert.True(t, meta.RequiresDeepReview)
}

func TestDeriveMetadataLanguagesAreExtensions(t *testing.T) {
	files := filesNamed("a.go", "b.ts", "c.go", "Makefile")
	meta := deriveMetadata(files, models.DiffStats{}, 0)
	assert.Equal(t, []string{"Makefile", "go", "ts"}, meta.Languages)
}
