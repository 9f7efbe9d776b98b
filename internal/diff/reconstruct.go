package diff

import (
	"fmt"
	"strings"

	"github.com/reviewlane/reviewlane/pkg/models"
)

// Reconstruct replays a parsed file diff back into unified-diff text, so a
// consumer holding only the structured model can still present a patch.
// Binary files and files without hunks yield an empty string.
func Reconstruct(file models.FileDiff) string {
	if file.IsBinary || len(file.Hunks) == 0 {
		return ""
	}

	var b strings.Builder
	for _, hunk := range file.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@", hunk.OldStart, hunk.OldLineCount, hunk.NewStart, hunk.NewLineCount)
		if hunk.HeaderText != "" {
			b.WriteString(" " + hunk.HeaderText)
		}
		b.WriteString("\n")

		for _, line := range hunk.Lines {
			switch line.Kind {
			case models.LineAdd:
				b.WriteString("+" + line.Text + "\n")
			case models.LineDelete:
				b.WriteString("-" + line.Text + "\n")
			case models.LineContext:
				b.WriteString(" " + line.Text + "\n")
			case models.LineNoNewline:
				b.WriteString(`\ ` + line.Text + "\n")
			}
		}
	}
	return b.String()
}
