package analytics

import (
	"regexp"
	"sort"

	"github.com/reviewlane/reviewlane/pkg/models"
)

// symbolPatterns match declarations commonly carried in hunk header text.
// This is a best-effort signal, not a guarantee of completeness.
var symbolPatterns = []*regexp.Regexp{
	regexp.MustCompile(`func(?: \([^)]+\))? (\w+)`),           // Go functions and methods
	regexp.MustCompile(`def (\w+)`),                           // Python
	regexp.MustCompile(`class (\w+)`),                         // class declarations
	regexp.MustCompile(`function (\w+)`),                      // JS functions
	regexp.MustCompile(`(?:export )?const (\w+)\s*=`),         // top-level const assignment
	regexp.MustCompile(`(?:export )?(?:interface|type) (\w+)`),
}

// ExtractChangedLines flattens a file's hunks into a FileChange, keeping
// only added and deleted lines with their side's line numbers.
func ExtractChangedLines(file models.FileDiff) models.FileChange {
	change := models.FileChange{
		Filename:        file.Filename,
		Status:          file.Status,
		Additions:       file.Additions,
		Deletions:       file.Deletions,
		AffectedSymbols: ExtractAffectedSymbols(file),
		Language:        DetectLanguage(file.Filename),
	}

	for _, hunk := range file.Hunks {
		for _, line := range hunk.Lines {
			switch line.Kind {
			case models.LineAdd:
				change.ChangedLines = append(change.ChangedLines, models.ChangedLine{
					LineNumber: line.NewLineNo,
					Kind:       models.LineAdd,
					Text:       line.Text,
				})
			case models.LineDelete:
				change.ChangedLines = append(change.ChangedLines, models.ChangedLine{
					LineNumber: line.OldLineNo,
					Kind:       models.LineDelete,
					Text:       line.Text,
				})
			}
		}
	}

	return change
}

// ExtractAffectedSymbols scans each hunk's header text against the fixed
// declaration patterns and collects unique matched identifiers, preserving
// first-seen order.
func ExtractAffectedSymbols(file models.FileDiff) []string {
	seen := make(map[string]bool)
	var symbols []string

	for _, hunk := range file.Hunks {
		if hunk.HeaderText == "" {
			continue
		}
		for _, re := range symbolPatterns {
			m := re.FindStringSubmatch(hunk.HeaderText)
			if m == nil || seen[m[1]] {
				continue
			}
			seen[m[1]] = true
			symbols = append(symbols, m[1])
		}
	}

	return symbols
}

// ComputeContextRanges turns a set of changed lines into the merged line
// windows that need fetching for surrounding context. Each changed line is
// padded on both sides (clamped to line 1); touching or overlapping windows
// are merged.
func ComputeContextRanges(lines []models.ChangedLine, pad int) []models.LineRange {
	if len(lines) == 0 {
		return nil
	}

	numbers := make([]int, 0, len(lines))
	for _, l := range lines {
		numbers = append(numbers, l.LineNumber)
	}
	sort.Ints(numbers)

	var ranges []models.LineRange
	for _, n := range numbers {
		start := n - pad
		if start < 1 {
			start = 1
		}
		end := n + pad

		if len(ranges) > 0 && start <= ranges[len(ranges)-1].End+1 {
			if end > ranges[len(ranges)-1].End {
				ranges[len(ranges)-1].End = end
			}
			continue
		}
		ranges = append(ranges, models.LineRange{Start: start, End: end})
	}

	return ranges
}
