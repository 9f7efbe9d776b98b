package prcontext

import (
	"fmt"
	"strings"

	"github.com/reviewlane/reviewlane/pkg/models"
)

const (
	summaryCommitLimit = 5
	summaryBodyLimit   = 500
)

// GenerateSummary renders a human-readable Markdown digest of a built
// context: header, author, stats, review flags, a truncated commit list,
// and the PR description.
func GenerateSummary(pc *models.PRContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# PR #%d: %s\n\n", pc.Number, pc.PR.Title)
	fmt.Fprintf(&b, "**Repository:** %s/%s\n", pc.Owner, pc.Repo)
	fmt.Fprintf(&b, "**Author:** %s\n", pc.PR.Author)
	fmt.Fprintf(&b, "**Branches:** %s ← %s\n", pc.PR.BaseRef, pc.PR.HeadRef)
	state := pc.PR.State
	if pc.PR.Draft {
		state += " (draft)"
	}
	fmt.Fprintf(&b, "**State:** %s\n\n", state)

	fmt.Fprintf(&b, "## Changes\n\n")
	fmt.Fprintf(&b, "- %d files changed (+%d / -%d)\n",
		pc.Stats.TotalFiles, pc.Stats.TotalAdditions, pc.Stats.TotalDeletions)
	if len(pc.Metadata.Languages) > 0 {
		fmt.Fprintf(&b, "- Languages: %s\n", strings.Join(pc.Metadata.Languages, ", "))
	}
	if len(pc.Metadata.AffectedAreas) > 0 {
		fmt.Fprintf(&b, "- Affected areas: %s\n", strings.Join(pc.Metadata.AffectedAreas, ", "))
	}
	fmt.Fprintf(&b, "- Overall complexity: %.1f/100\n", pc.OverallComplexity)

	var flags []string
	if pc.Metadata.IsLargeChange {
		flags = append(flags, "large change")
	}
	if pc.Metadata.HasSensitiveFiles {
		flags = append(flags, "sensitive files")
	}
	if pc.Metadata.RequiresDeepReview {
		flags = append(flags, "deep review recommended")
	}
	if len(flags) > 0 {
		fmt.Fprintf(&b, "- Flags: %s\n", strings.Join(flags, ", "))
	}

	if len(pc.Commits) > 0 {
		fmt.Fprintf(&b, "\n## Commits\n\n")
		for i, c := range pc.Commits {
			if i == summaryCommitLimit {
				fmt.Fprintf(&b, "- ... and %d more\n", len(pc.Commits)-summaryCommitLimit)
				break
			}
			subject := c.Message
			if idx := strings.Index(subject, "\n"); idx >= 0 {
				subject = subject[:idx]
			}
			fmt.Fprintf(&b, "- %s %s\n", shortSHA(c.SHA), subject)
		}
	}

	if body := strings.TrimSpace(pc.PR.Body); body != "" {
		if len(body) > summaryBodyLimit {
			body = body[:summaryBodyLimit] + "..."
		}
		fmt.Fprintf(&b, "\n## Description\n\n%s\n", body)
	}

	return b.String()
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
