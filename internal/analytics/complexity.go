package analytics

import (
	"regexp"
	"strings"

	"github.com/reviewlane/reviewlane/pkg/models"
)

// Path keyword bonuses. The relative ordering (auth above database above
// api) is relied upon downstream; treat the constants as tuning knobs only.
var pathBonuses = []struct {
	keywords []string
	bonus    float64
}{
	{[]string{"security", "auth", "crypto", "password", "secret"}, 20},
	{[]string{"database", "migration", "schema", "sql"}, 15},
	{[]string{"api", "endpoint", "route", "handler"}, 10},
}

// riskPatterns each add 5 points when present anywhere in the changed
// content, at most once per pattern.
var riskPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\basync\b|\bawait\b`),
	regexp.MustCompile(`\btry\b|\bcatch\b|\bexcept\b`),
	regexp.MustCompile(`\bclass\s+\w+|\binterface\s+\w+|\btype\s+\w+`),
	regexp.MustCompile(`@\w+\(`),
	regexp.MustCompile(`\.then\(|\.catch\(|Promise\.`),
	regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b.*\b(FROM|INTO|SET|WHERE)\b`),
	regexp.MustCompile(`(?i)\b(encrypt|decrypt|hash|hmac|sign|verify)\w*\(`),
}

// ScoreComplexity assigns a file a triage score in [0,100]: change volume up
// to 50 points, path keyword bonuses, and 5 points per risk pattern matched
// in the hunk content. Monotonic in change volume and keyword presence.
func ScoreComplexity(file models.FileDiff) float64 {
	score := float64(file.Changes) / 10
	if score > 50 {
		score = 50
	}

	lowerPath := strings.ToLower(file.Filename)
	for _, pb := range pathBonuses {
		for _, kw := range pb.keywords {
			if strings.Contains(lowerPath, kw) {
				score += pb.bonus
				break
			}
		}
	}

	content := hunkContent(file)
	for _, re := range riskPatterns {
		if re.MatchString(content) {
			score += 5
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

func hunkContent(file models.FileDiff) string {
	var b strings.Builder
	for _, hunk := range file.Hunks {
		for _, line := range hunk.Lines {
			if line.Kind == models.LineAdd || line.Kind == models.LineDelete {
				b.WriteString(line.Text)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
