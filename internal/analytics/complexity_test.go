package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reviewlane/reviewlane/pkg/models"
)

func fileWithContent(filename string, changes int, content ...string) models.FileDiff {
	lines := make([]models.DiffLine, 0, len(content))
	for _, text := range content {
		lines = append(lines, models.DiffLine{Kind: models.LineAdd, Text: text})
	}
	return models.FileDiff{
		Filename: filename,
		Changes:  changes,
		Hunks:    []models.DiffHunk{{Lines: lines}},
	}
}

func TestScoreComplexityBase(t *testing.T) {
	// Volume alone caps at 50.
	assert.InDelta(t, 1.0, ScoreComplexity(fileWithContent("a.go", 10)), 0.001)
	assert.InDelta(t, 50.0, ScoreComplexity(fileWithContent("a.go", 10000)), 0.001)
}

func TestScoreComplexityPathBonuses(t *testing.T) {
	assert.InDelta(t, 20.0, ScoreComplexity(fileWithContent("src/auth/session.go", 0)), 0.001)
	assert.InDelta(t, 15.0, ScoreComplexity(fileWithContent("db/migration/001.sql", 0)), 0.001)
	assert.InDelta(t, 10.0, ScoreComplexity(fileWithContent("internal/api/routes.go", 0)), 0.001)
}

func TestScoreComplexityRiskPatternsCountOnce(t *testing.T) {
	one := ScoreComplexity(fileWithContent("a.ts", 0, "await fetch(url)"))
	many := ScoreComplexity(fileWithContent("a.ts", 0,
		"await fetch(url)",
		"await fetch(other)",
		strings.Repeat("await x; ", 50)))
	assert.InDelta(t, 5.0, one, 0.001)
	assert.Equal(t, one, many)
}

func TestScoreComplexityNeverExceeds100(t *testing.T) {
	// Every bonus category plus enormous volume still caps at 100.
	f := fileWithContent("src/security/auth/api/database/migration/handler.ts", 100000,
		"async function run() { await job() }",
		"try { run() } catch (e) {}",
		"class Runner implements interface X {}",
		"@Injectable()",
		"p.then(ok).catch(fail)",
		"SELECT secret FROM tokens WHERE id = 1",
		"encrypt(payload)")

	assert.InDelta(t, 100.0, ScoreComplexity(f), 0.001)
	assert.LessOrEqual(t, ScoreComplexity(f), 100.0)
}

func TestScoreComplexityMonotonicInVolume(t *testing.T) {
	small := ScoreComplexity(fileWithContent("pkg/util.go", 50))
	large := ScoreComplexity(fileWithContent("pkg/util.go", 200))
	assert.Less(t, small, large)
}
