package prcontext

import (
	"github.com/reviewlane/reviewlane/internal/analytics"
	"github.com/reviewlane/reviewlane/internal/diff"
	"github.com/reviewlane/reviewlane/pkg/models"
)

// PrepareForReview projects a built context into the machine-oriented
// payload for the external reviewer. Each file's patch is replayed from its
// hunks so a consumer holding only this payload can still present a
// textual diff.
func PrepareForReview(pc *models.PRContext) *models.ReviewPayload {
	files := make([]models.ReviewFile, 0, len(pc.Files))
	for _, f := range pc.Files {
		files = append(files, models.ReviewFile{
			Filename:  f.Filename,
			Status:    f.Status,
			Additions: f.Additions,
			Deletions: f.Deletions,
			Patch:     diff.Reconstruct(f),
			Language:  analytics.DetectLanguage(f.Filename),
		})
	}

	return &models.ReviewPayload{
		Title:       pc.PR.Title,
		Description: pc.PR.Body,
		BaseRef:     pc.PR.BaseRef,
		HeadRef:     pc.PR.HeadRef,
		Files:       files,
		Metadata:    pc.Metadata,
	}
}
