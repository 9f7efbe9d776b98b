package models

import "time"

// Diff model

// LineKind classifies a single line inside a diff hunk.
type LineKind string

const (
	LineAdd       LineKind = "add"
	LineDelete    LineKind = "delete"
	LineContext   LineKind = "context"
	LineNoNewline LineKind = "no_newline"
)

// DiffLine is one line of a hunk. Add lines carry only a new-side line
// number, delete lines only an old-side number, context lines both. A
// no_newline pseudo-line carries neither.
type DiffLine struct {
	Kind      LineKind `json:"kind"`
	Text      string   `json:"text"`
	OldLineNo int      `json:"old_line_no,omitempty"`
	NewLineNo int      `json:"new_line_no,omitempty"`
}

// DiffHunk is a contiguous change region of a file diff. HeaderText is the
// trailing text after the "@@ ... @@" marker, often the enclosing function
// or class signature; empty string is valid.
type DiffHunk struct {
	OldStart     int        `json:"old_start"`
	OldLineCount int        `json:"old_line_count"`
	NewStart     int        `json:"new_start"`
	NewLineCount int        `json:"new_line_count"`
	HeaderText   string     `json:"header_text"`
	Lines        []DiffLine `json:"lines"`
}

// FileStatus is the change status of a file in a pull request.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusRemoved  FileStatus = "removed"
	StatusModified FileStatus = "modified"
	StatusRenamed  FileStatus = "renamed"
)

// FileDiff is the parsed diff of a single file. Changes is always
// Additions+Deletions, computed once all hunks are parsed.
type FileDiff struct {
	Filename         string     `json:"filename"`
	PreviousFilename string     `json:"previous_filename,omitempty"`
	Status           FileStatus `json:"status"`
	Additions        int        `json:"additions"`
	Deletions        int        `json:"deletions"`
	Changes          int        `json:"changes"`
	Hunks            []DiffHunk `json:"hunks"`
	IsBinary         bool       `json:"is_binary"`
}

// ChangedLine is a single added or deleted line with its line number on the
// side it lives on (new side for adds, old side for deletes).
type ChangedLine struct {
	LineNumber int      `json:"line_number"`
	Kind       LineKind `json:"kind"`
	Text       string   `json:"text"`
}

// FileChange is a flattened view of a FileDiff: hunks collapsed into the
// changed lines only, plus best-effort symbol and language annotations.
// Constructed fresh per request, never mutated after construction.
type FileChange struct {
	Filename        string        `json:"filename"`
	Status          FileStatus    `json:"status"`
	Additions       int           `json:"additions"`
	Deletions       int           `json:"deletions"`
	ChangedLines    []ChangedLine `json:"changed_lines"`
	AffectedSymbols []string      `json:"affected_symbols"`
	Language        string        `json:"language,omitempty"`
}

// LineRange is an inclusive window of line numbers.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DiffStats aggregates change statistics across all files of one request.
type DiffStats struct {
	TotalFiles     int            `json:"total_files"`
	TotalAdditions int            `json:"total_additions"`
	TotalDeletions int            `json:"total_deletions"`
	TotalChanges   int            `json:"total_changes"`
	ByStatus       map[string]int `json:"by_status"`
	ByLanguage     map[string]int `json:"by_language"`
	TopFiles       []string       `json:"top_files"`
	BinaryFiles    int            `json:"binary_files"`
}

// Source-control API model

// PRDetails is the metadata of a pull request.
type PRDetails struct {
	Number       int       `json:"number"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	State        string    `json:"state"`
	Draft        bool      `json:"draft"`
	Merged       bool      `json:"merged"`
	Author       string    `json:"author"`
	BaseRef      string    `json:"base_ref"`
	BaseSHA      string    `json:"base_sha"`
	HeadRef      string    `json:"head_ref"`
	HeadSHA      string    `json:"head_sha"`
	HTMLURL      string    `json:"html_url"`
	ChangedFiles int       `json:"changed_files"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	Commits      int       `json:"commits"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FileSummary is one entry of the platform's per-PR file listing.
type FileSummary struct {
	Filename         string `json:"filename"`
	PreviousFilename string `json:"previous_filename,omitempty"`
	Status           string `json:"status"`
	Additions        int    `json:"additions"`
	Deletions        int    `json:"deletions"`
	Changes          int    `json:"changes"`
	SHA              string `json:"sha"`
	Patch            string `json:"patch,omitempty"`
}

// CommitSummary is one entry of the per-PR commit listing.
type CommitSummary struct {
	SHA         string    `json:"sha"`
	Message     string    `json:"message"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	AuthoredAt  time.Time `json:"authored_at"`
	HTMLURL     string    `json:"html_url"`
}

// FileContent is one file's decoded content at a specific ref.
type FileContent struct {
	Path    string `json:"path"`
	Ref     string `json:"ref"`
	SHA     string `json:"sha"`
	Size    int    `json:"size"`
	Content string `json:"content"`
}

// ContentRef names a (path, ref) pair to fetch.
type ContentRef struct {
	Path string `json:"path"`
	Ref  string `json:"ref"`
}

// PRDiff bundles the raw diff text with the platform file listing and
// client-side summed stats.
type PRDiff struct {
	DiffText string        `json:"diff_text"`
	Files    []FileSummary `json:"files"`
	Stats    DiffStats     `json:"stats"`
}

// RateLimitInfo is a point-in-time snapshot of the platform quota. It is
// re-fetched before API-heavy operations, never cached across calls.
type RateLimitInfo struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"reset_time"`
	Used      int       `json:"used"`
}

// Review submission model

// ReviewEvent is the review verdict attached by SubmitReview.
type ReviewEvent string

const (
	ReviewComment        ReviewEvent = "COMMENT"
	ReviewApprove        ReviewEvent = "APPROVE"
	ReviewRequestChanges ReviewEvent = "REQUEST_CHANGES"
)

// InlineComment is a single-line comment anchored to a file and line.
type InlineComment struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Body string `json:"body"`
}

// ReviewSubmission is a full review: a verdict, an overall body, and zero or
// more inline comments.
type ReviewSubmission struct {
	Event    ReviewEvent     `json:"event"`
	Body     string          `json:"body"`
	CommitID string          `json:"commit_id,omitempty"`
	Comments []InlineComment `json:"comments,omitempty"`
}

// Context model

// ContextMetadata is the derived metadata block of a PRContext.
type ContextMetadata struct {
	Languages          []string `json:"languages"`
	AffectedAreas      []string `json:"affected_areas"`
	IsLargeChange      bool     `json:"is_large_change"`
	HasSensitiveFiles  bool     `json:"has_sensitive_files"`
	RequiresDeepReview bool     `json:"requires_deep_review"`
}

// PRContext is the normalized context object for one pull request. It is
// constructed once per build call, read-only afterward, and owns no
// persistence responsibility.
type PRContext struct {
	Owner     string    `json:"owner"`
	Repo      string    `json:"repo"`
	Number    int       `json:"number"`
	BuildID   string    `json:"build_id"`
	FetchedAt time.Time `json:"fetched_at"`

	PR           *PRDetails             `json:"pr"`
	Diff         *PRDiff                `json:"diff"`
	Files        []FileDiff             `json:"files"`
	Changes      []FileChange           `json:"changes"`
	FileContents map[string]FileContent `json:"file_contents,omitempty"`
	Commits      []CommitSummary        `json:"commits,omitempty"`
	Stats        DiffStats              `json:"stats"`

	FileComplexity    map[string]float64 `json:"file_complexity"`
	OverallComplexity float64            `json:"overall_complexity"`

	Metadata ContextMetadata `json:"metadata"`
}

// ReviewFile is the per-file entry of the machine-oriented review payload.
type ReviewFile struct {
	Filename  string     `json:"filename"`
	Status    FileStatus `json:"status"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Patch     string     `json:"patch,omitempty"`
	Language  string     `json:"language,omitempty"`
}

// ReviewPayload is the machine-oriented projection of a PRContext handed to
// the external reviewer.
type ReviewPayload struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	BaseRef     string          `json:"base_ref"`
	HeadRef     string          `json:"head_ref"`
	Files       []ReviewFile    `json:"files"`
	Metadata    ContextMetadata `json:"metadata"`
}
