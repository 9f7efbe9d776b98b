package analytics

import (
	"sort"

	"github.com/reviewlane/reviewlane/pkg/models"
)

const topFileCount = 10

// AggregateStats sums totals across files, buckets them by status and by
// detected language, and ranks the top files by change volume. The ranking
// sort is stable so ties keep their original order.
func AggregateStats(files []models.FileDiff) models.DiffStats {
	stats := models.DiffStats{
		ByStatus:   make(map[string]int),
		ByLanguage: make(map[string]int),
	}

	for _, f := range files {
		stats.TotalFiles++
		stats.TotalAdditions += f.Additions
		stats.TotalDeletions += f.Deletions
		stats.TotalChanges += f.Changes
		stats.ByStatus[string(f.Status)]++
		if lang := DetectLanguage(f.Filename); lang != "" {
			stats.ByLanguage[lang]++
		}
		if f.IsBinary {
			stats.BinaryFiles++
		}
	}

	ranked := make([]models.FileDiff, len(files))
	copy(ranked, files)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Changes > ranked[j].Changes
	})

	n := topFileCount
	if len(ranked) < n {
		n = len(ranked)
	}
	for _, f := range ranked[:n] {
		stats.TopFiles = append(stats.TopFiles, f.Filename)
	}

	return stats
}
