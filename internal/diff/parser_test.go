package diff

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlane/reviewlane/pkg/models"
)

const sampleDiff = `diff --git a/README.md b/README.md
index 83db48f..bf269f4 100644
--- a/README.md
+++ b/README.md
@@ -1,3 +1,3 @@
-old
+new
 context`

func TestParseSingleFile(t *testing.T) {
	files := Parse(sampleDiff)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, "README.md", f.Filename)
	assert.Equal(t, models.StatusModified, f.Status)
	assert.Equal(t, 1, f.Additions)
	assert.Equal(t, 1, f.Deletions)
	assert.Equal(t, 2, f.Changes)
	require.Len(t, f.Hunks, 1)

	hunk := f.Hunks[0]
	assert.Equal(t, 1, hunk.OldStart)
	assert.Equal(t, 3, hunk.OldLineCount)
	assert.Equal(t, 1, hunk.NewStart)
	assert.Equal(t, 3, hunk.NewLineCount)
	require.Len(t, hunk.Lines, 3)

	assert.Equal(t, models.LineDelete, hunk.Lines[0].Kind)
	assert.Equal(t, 1, hunk.Lines[0].OldLineNo)
	assert.Equal(t, models.LineAdd, hunk.Lines[1].Kind)
	assert.Equal(t, 1, hunk.Lines[1].NewLineNo)
	assert.Equal(t, models.LineContext, hunk.Lines[2].Kind)
	assert.Equal(t, 2, hunk.Lines[2].OldLineNo)
	assert.Equal(t, 2, hunk.Lines[2].NewLineNo)
}

func TestParseStatuses(t *testing.T) {
	text := `diff --git a/added.go b/added.go
new file mode 100644
--- /dev/null
+++ b/added.go
@@ -0,0 +1 @@
+package main
diff --git a/gone.go b/gone.go
deleted file mode 100644
--- a/gone.go
+++ /dev/null
@@ -1 +0,0 @@
-package main
diff --git a/old.go b/new.go
rename from old.go
rename to new.go
diff --git a/logo.png b/logo.png
Binary files a/logo.png and b/logo.png differ`

	files := Parse(text)
	require.Len(t, files, 4)

	assert.Equal(t, models.StatusAdded, files[0].Status)
	assert.Equal(t, 1, files[0].Additions)

	assert.Equal(t, models.StatusRemoved, files[1].Status)
	assert.Equal(t, 1, files[1].Deletions)

	assert.Equal(t, models.StatusRenamed, files[2].Status)
	assert.Equal(t, "new.go", files[2].Filename)
	assert.Equal(t, "old.go", files[2].PreviousFilename)

	assert.True(t, files[3].IsBinary)
	assert.Empty(t, files[3].Hunks)
}

func TestParseHunkHeaderDefaults(t *testing.T) {
	// Omitted line counts default to 1 per the unified-diff format.
	text := `diff --git a/a.txt b/a.txt
@@ -5 +5 @@ func main()
-x
+y`

	files := Parse(text)
	require.Len(t, files, 1)
	require.Len(t, files[0].Hunks, 1)

	hunk := files[0].Hunks[0]
	assert.Equal(t, 5, hunk.OldStart)
	assert.Equal(t, 1, hunk.OldLineCount)
	assert.Equal(t, 1, hunk.NewLineCount)
	assert.Equal(t, "func main()", hunk.HeaderText)
}

func TestParseNoNewlineMarker(t *testing.T) {
	text := `diff --git a/a.txt b/a.txt
@@ -1 +1 @@
-old
+new
\ No newline at end of file`

	files := Parse(text)
	require.Len(t, files, 1)

	lines := files[0].Hunks[0].Lines
	require.Len(t, lines, 3)
	assert.Equal(t, models.LineNoNewline, lines[2].Kind)
	// The marker moves neither counter.
	assert.Zero(t, lines[2].OldLineNo)
	assert.Zero(t, lines[2].NewLineNo)
	assert.Equal(t, 1, files[0].Additions)
	assert.Equal(t, 1, files[0].Deletions)
}

func TestParseMalformedInputDoesNotFail(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("not a diff at all\njust text\n"))

	// Unterminated hunk is flushed at end of input, not dropped.
	files := Parse("diff --git a/a.txt b/a.txt\n@@ -1,5 +1,5 @@\n+only one line")
	require.Len(t, files, 1)
	assert.Equal(t, 1, files[0].Additions)
	require.Len(t, files[0].Hunks, 1)
}

func TestParseChangesInvariant(t *testing.T) {
	for _, f := range Parse(sampleDiff + "\n" + multiHunkDiff) {
		assert.Equal(t, f.Additions+f.Deletions, f.Changes, "file %s", f.Filename)
	}
}

const multiHunkDiff = `diff --git a/src/server.go b/src/server.go
--- a/src/server.go
+++ b/src/server.go
@@ -10,4 +10,5 @@ func handle()
 a
-b
+b2
+b3
 c
@@ -40,3 +41,3 @@ func close()
 x
-y
+y2
 z`

func TestParseLineNumbersMonotonic(t *testing.T) {
	for _, f := range Parse(multiHunkDiff) {
		for _, h := range f.Hunks {
			prevOld, prevNew := 0, 0
			for _, line := range h.Lines {
				if line.OldLineNo > 0 {
					assert.GreaterOrEqual(t, line.OldLineNo, prevOld)
					prevOld = line.OldLineNo
				}
				if line.NewLineNo > 0 {
					assert.GreaterOrEqual(t, line.NewLineNo, prevNew)
					prevNew = line.NewLineNo
				}
			}
		}
	}
}

func TestReconstructRoundTrip(t *testing.T) {
	for _, text := range []string{sampleDiff, multiHunkDiff} {
		original := Parse(text)
		require.NotEmpty(t, original)

		for _, f := range original {
			header := fmt.Sprintf("diff --git a/%s b/%s\n", f.Filename, f.Filename)
			reparsed := Parse(header + Reconstruct(f))
			require.Len(t, reparsed, 1)

			got := reparsed[0]
			assert.Equal(t, f.Additions, got.Additions)
			assert.Equal(t, f.Deletions, got.Deletions)
			assert.Equal(t, f.Changes, got.Changes)
			if diff := cmp.Diff(f.Hunks, got.Hunks); diff != "" {
				t.Errorf("round-trip hunk mismatch for %s (-original +reparsed):\n%s", f.Filename, diff)
			}
		}
	}
}

func TestReconstructBinaryIsEmpty(t *testing.T) {
	assert.Empty(t, Reconstruct(models.FileDiff{Filename: "logo.png", IsBinary: true}))
}
