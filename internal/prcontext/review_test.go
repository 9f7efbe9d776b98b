package prcontext

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlane/reviewlane/internal/diff"
	"github.com/reviewlane/reviewlane/pkg/models"
)

func TestGenerateSummary(t *testing.T) {
	stub := newStub(diffFor("src/app.ts", "src/auth/session.ts"))
	pc, err := Build(context.Background(), stub, "acme", "widgets", 42, DefaultBuildOptions())
	require.NoError(t, err)

	summary := GenerateSummary(pc)

	assert.Contains(t, summary, "# PR #42: Improve session handling")
	assert.Contains(t, summary, "**Repository:** acme/widgets")
	assert.Contains(t, summary, "**Author:** octocat")
	assert.Contains(t, summary, "**Branches:** main ← feature/sessions")
	assert.Contains(t, summary, "- 2 files changed (+2 / -2)")
	assert.Contains(t, summary, "- Flags: sensitive files, deep review recommended")
	assert.Contains(t, summary, "- aaaa111 rotate tokens")
	assert.NotContains(t, summary, "longer body", "only the commit subject is shown")
	assert.Contains(t, summary, "Tightens token rotation.")
}

func TestGenerateSummaryTruncatesCommits(t *testing.T) {
	stub := newStub(diffFor("a.go"))
	stub.commits = nil
	for i := 0; i < 8; i++ {
		stub.commits = append(stub.commits, models.CommitSummary{
			SHA:     fmt.Sprintf("%040d", i),
			Message: fmt.Sprintf("commit %d", i),
		})
	}

	pc, err := Build(context.Background(), stub, "acme", "widgets", 42, DefaultBuildOptions())
	require.NoError(t, err)

	summary := GenerateSummary(pc)
	assert.Contains(t, summary, "commit 4")
	assert.NotContains(t, summary, "commit 5")
	assert.Contains(t, summary, "- ... and 3 more")
}

func TestPrepareForReview(t *testing.T) {
	stub := newStub(diffFor("src/app.ts"))
	pc, err := Build(context.Background(), stub, "acme", "widgets", 42, DefaultBuildOptions())
	require.NoError(t, err)

	payload := PrepareForReview(pc)

	assert.Equal(t, "Improve session handling", payload.Title)
	assert.Equal(t, "main", payload.BaseRef)
	assert.Equal(t, "feature/sessions", payload.HeadRef)
	require.Len(t, payload.Files, 1)

	f := payload.Files[0]
	assert.Equal(t, "src/app.ts", f.Filename)
	assert.Equal(t, "TypeScript", f.Language)
	assert.True(t, strings.HasPrefix(f.Patch, "@@ -1,2 +1,2 @@"))

	// The replayed patch parses back to the same shape.
	reparsed := diff.Parse("diff --git a/" + f.Filename + " b/" + f.Filename + "\n" + f.Patch)
	require.Len(t, reparsed, 1)
	assert.Equal(t, pc.Files[0].Additions, reparsed[0].Additions)
	assert.Equal(t, pc.Files[0].Deletions, reparsed[0].Deletions)
}
