package diff

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/reviewlane/reviewlane/pkg/models"
)

var (
	fileHeaderRe = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	// The two line-count fields are optional and default to 1 for
	// single-line hunks.
	hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)
)

type state int

const (
	stateScanning state = iota // looking for the next file header
	statePreamble              // between a file header and its first hunk
	stateInHunk                // consuming hunk body lines
)

// parser threads the scan state explicitly: the open file, the open hunk,
// and the running old/new line counters. No shared state survives a Parse
// call.
type parser struct {
	files []models.FileDiff
	file  *models.FileDiff
	hunk  *models.DiffHunk
	oldNo int
	newNo int
	state state
}

// Parse turns raw unified-diff text into an ordered list of per-file diff
// records. It is deterministic and side-effect-free, and it never fails:
// unrecognized lines are skipped and unterminated hunks or files are flushed
// at end of input.
func Parse(text string) []models.FileDiff {
	p := &parser{state: stateScanning}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if m := fileHeaderRe.FindStringSubmatch(line); m != nil {
			p.startFile(m[1], m[2])
			continue
		}

		switch p.state {
		case statePreamble:
			p.preambleLine(line)
			if m := hunkHeaderRe.FindStringSubmatch(line); m != nil {
				p.startHunk(m)
			}
		case stateInHunk:
			if m := hunkHeaderRe.FindStringSubmatch(line); m != nil {
				p.startHunk(m)
				continue
			}
			p.hunkLine(line)
		}
	}

	p.flushFile()
	return p.files
}

// startFile closes any open hunk and file, then opens a new FileDiff. Status
// defaults to modified; differing a/ and b/ paths mean a rename.
func (p *parser) startFile(oldPath, newPath string) {
	p.flushFile()

	file := models.FileDiff{
		Filename: newPath,
		Status:   models.StatusModified,
	}
	if oldPath != newPath {
		file.Status = models.StatusRenamed
		file.PreviousFilename = oldPath
	}

	p.file = &file
	p.state = statePreamble
}

// preambleLine interprets the status lines between the file header and the
// first hunk. These are structural markers git emits verbatim, so fixed
// prefixes are enough.
func (p *parser) preambleLine(line string) {
	switch {
	case strings.HasPrefix(line, "new file mode"):
		p.file.Status = models.StatusAdded
	case strings.HasPrefix(line, "deleted file mode"):
		p.file.Status = models.StatusRemoved
	case strings.HasPrefix(line, "rename from "):
		p.file.Status = models.StatusRenamed
		p.file.PreviousFilename = strings.TrimPrefix(line, "rename from ")
	case strings.HasPrefix(line, "rename to "):
		p.file.Status = models.StatusRenamed
	case strings.HasPrefix(line, "Binary files "):
		p.file.IsBinary = true
	}
}

func (p *parser) startHunk(m []string) {
	p.flushHunk()

	oldStart, _ := strconv.Atoi(m[1])
	oldCount := 1
	if m[2] != "" {
		oldCount, _ = strconv.Atoi(m[2])
	}
	newStart, _ := strconv.Atoi(m[3])
	newCount := 1
	if m[4] != "" {
		newCount, _ = strconv.Atoi(m[4])
	}

	p.hunk = &models.DiffHunk{
		OldStart:     oldStart,
		OldLineCount: oldCount,
		NewStart:     newStart,
		NewLineCount: newCount,
		HeaderText:   strings.TrimSpace(m[5]),
	}
	p.oldNo = oldStart
	p.newNo = newStart
	p.state = stateInHunk
}

// hunkLine classifies one body line of the open hunk. Adds consume the new
// counter, deletes the old one, context both. Anything unrecognized is
// skipped so unknown diff extensions do not abort parsing.
func (p *parser) hunkLine(line string) {
	switch {
	case line == `\ No newline at end of file`:
		p.hunk.Lines = append(p.hunk.Lines, models.DiffLine{
			Kind: models.LineNoNewline,
			Text: strings.TrimPrefix(line, `\ `),
		})
	case strings.HasPrefix(line, "+"):
		p.hunk.Lines = append(p.hunk.Lines, models.DiffLine{
			Kind:      models.LineAdd,
			Text:      line[1:],
			NewLineNo: p.newNo,
		})
		p.newNo++
		p.file.Additions++
	case strings.HasPrefix(line, "-"):
		p.hunk.Lines = append(p.hunk.Lines, models.DiffLine{
			Kind:      models.LineDelete,
			Text:      line[1:],
			OldLineNo: p.oldNo,
		})
		p.oldNo++
		p.file.Deletions++
	case strings.HasPrefix(line, " "):
		p.hunk.Lines = append(p.hunk.Lines, models.DiffLine{
			Kind:      models.LineContext,
			Text:      line[1:],
			OldLineNo: p.oldNo,
			NewLineNo: p.newNo,
		})
		p.oldNo++
		p.newNo++
	}
}

func (p *parser) flushHunk() {
	if p.hunk == nil {
		return
	}
	p.file.Hunks = append(p.file.Hunks, *p.hunk)
	p.hunk = nil
}

// flushFile closes the open file. Changes is computed here, once all hunks
// are in, rather than trusted incrementally.
func (p *parser) flushFile() {
	if p.file == nil {
		return
	}
	p.flushHunk()
	p.file.Changes = p.file.Additions + p.file.Deletions
	p.files = append(p.files, *p.file)
	p.file = nil
	p.state = stateScanning
}
