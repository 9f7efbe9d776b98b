package prcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reviewlane/reviewlane/internal/analytics"
	"github.com/reviewlane/reviewlane/internal/diff"
	"github.com/reviewlane/reviewlane/internal/logging"
	"github.com/reviewlane/reviewlane/pkg/models"
)

// ProviderClient is the slice of the source-control client the assembler
// needs. Retry and throttle policy live behind this interface; the
// assembler never retries on its own.
type ProviderClient interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*models.PRDetails, error)
	GetPRDiff(ctx context.Context, owner, repo string, number int) (*models.PRDiff, error)
	ListPRCommits(ctx context.Context, owner, repo string, number int) ([]models.CommitSummary, error)
	GetFileContents(ctx context.Context, owner, repo string, refs []models.ContentRef) []models.FileContent
}

// BuildOptions controls what a context build fetches and filters.
type BuildOptions struct {
	IncludeFileContents bool
	IncludeCommits      bool
	ContextLines        int
	MaxFilesToFetch     int
	SkipBinaryFiles     bool
	SkipGeneratedFiles  bool
}

// DefaultBuildOptions returns the options used when the caller passes none.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		IncludeFileContents: true,
		IncludeCommits:      true,
		ContextLines:        3,
		MaxFilesToFetch:     50,
		SkipBinaryFiles:     true,
		SkipGeneratedFiles:  true,
	}
}

// Build assembles the full context for one pull request. It is a
// straight-line pipeline: metadata, diff, parse+filter, changed lines,
// commits, file contents, stats, complexity, metadata. Failures fetching
// the PR or its diff abort the build; file-content fetches are best-effort
// per the client's contract and missing entries simply stay out of the map.
func Build(ctx context.Context, client ProviderClient, owner, repo string, number int, opts BuildOptions) (*models.PRContext, error) {
	log := logging.Component("prcontext")
	buildID := uuid.NewString()
	log.Info().
		Str("build_id", buildID).
		Str("repo", owner+"/"+repo).
		Int("pr", number).
		Msg("building PR context")

	pr, err := client.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetch pull request: %w", err)
	}

	prDiff, err := client.GetPRDiff(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetch diff: %w", err)
	}

	files := diff.Parse(prDiff.DiffText)
	files = filterFiles(files, opts)

	changes := make([]models.FileChange, 0, len(files))
	for _, f := range files {
		changes = append(changes, analytics.ExtractChangedLines(f))
	}

	result := &models.PRContext{
		Owner:     owner,
		Repo:      repo,
		Number:    number,
		BuildID:   buildID,
		FetchedAt: time.Now().UTC(),
		PR:        pr,
		Diff:      prDiff,
		Files:     files,
		Changes:   changes,
	}

	if opts.IncludeCommits {
		commits, err := client.ListPRCommits(ctx, owner, repo, number)
		if err != nil {
			return nil, fmt.Errorf("fetch commits: %w", err)
		}
		result.Commits = commits
	}

	if opts.IncludeFileContents {
		result.FileContents = fetchContents(ctx, client, owner, repo, pr.HeadSHA, files, opts.MaxFilesToFetch)
	}

	result.Stats = analytics.AggregateStats(files)

	result.FileComplexity = make(map[string]float64, len(files))
	var total float64
	for _, f := range files {
		score := analytics.ScoreComplexity(f)
		result.FileComplexity[f.Filename] = score
		total += score
	}
	if len(files) > 0 {
		result.OverallComplexity = total / float64(len(files))
	}

	result.Metadata = deriveMetadata(files, result.Stats, result.OverallComplexity)

	log.Info().
		Str("build_id", buildID).
		Int("files", len(files)).
		Int("changes", result.Stats.TotalChanges).
		Float64("complexity", result.OverallComplexity).
		Bool("deep_review", result.Metadata.RequiresDeepReview).
		Msg("PR context ready")

	return result, nil
}

func filterFiles(files []models.FileDiff, opts BuildOptions) []models.FileDiff {
	result := make([]models.FileDiff, 0, len(files))
	for _, f := range files {
		if opts.SkipBinaryFiles && f.IsBinary {
			continue
		}
		if opts.SkipGeneratedFiles && !analytics.ShouldReview(f.Filename) {
			continue
		}
		result = append(result, f)
	}
	return result
}

// fetchContents requests contents for non-removed files at the head commit,
// capped to bound request volume. Removed files no longer exist at HEAD and
// are never fetched.
func fetchContents(ctx context.Context, client ProviderClient, owner, repo, headSHA string, files []models.FileDiff, maxFiles int) map[string]models.FileContent {
	refs := make([]models.ContentRef, 0, len(files))
	for _, f := range files {
		if f.Status == models.StatusRemoved {
			continue
		}
		if maxFiles > 0 && len(refs) >= maxFiles {
			break
		}
		refs = append(refs, models.ContentRef{Path: f.Filename, Ref: headSHA})
	}

	contents := client.GetFileContents(ctx, owner, repo, refs)
	byPath := make(map[string]models.FileContent, len(contents))
	for _, content := range contents {
		byPath[content.Path] = content
	}
	return byPath
}
