package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/reviewlane/reviewlane/pkg/models"
)

type prWire struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
	Draft  bool   `json:"draft"`
	Merged bool   `json:"merged"`
	User   struct {
		Login string `json:"login"`
	} `json:"user"`
	Head struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	} `json:"base"`
	HTMLURL      string    `json:"html_url"`
	ChangedFiles int       `json:"changed_files"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	Commits      int       `json:"commits"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type fileWire struct {
	Filename         string `json:"filename"`
	PreviousFilename string `json:"previous_filename"`
	Status           string `json:"status"`
	Additions        int    `json:"additions"`
	Deletions        int    `json:"deletions"`
	Changes          int    `json:"changes"`
	SHA              string `json:"sha"`
	Patch            string `json:"patch"`
}

type commitWire struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	HTMLURL string `json:"html_url"`
}

// GetPullRequest fetches PR metadata. Missing PRs surface ErrNotFound and
// permission problems ErrUnauthorized/ErrForbidden; none of these are
// retried.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*models.PRDetails, error) {
	var wire prWire
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number)
	if err := c.getJSON(ctx, path, nil, &wire); err != nil {
		return nil, err
	}

	return &models.PRDetails{
		Number:       wire.Number,
		Title:        wire.Title,
		Body:         wire.Body,
		State:        wire.State,
		Draft:        wire.Draft,
		Merged:       wire.Merged,
		Author:       wire.User.Login,
		BaseRef:      wire.Base.Ref,
		BaseSHA:      wire.Base.SHA,
		HeadRef:      wire.Head.Ref,
		HeadSHA:      wire.Head.SHA,
		HTMLURL:      wire.HTMLURL,
		ChangedFiles: wire.ChangedFiles,
		Additions:    wire.Additions,
		Deletions:    wire.Deletions,
		Commits:      wire.Commits,
		CreatedAt:    wire.CreatedAt,
		UpdatedAt:    wire.UpdatedAt,
	}, nil
}

// ListPRFiles pages through the PR file listing at the platform's maximum
// page size until a short page is returned. Callers must not assume
// single-page responses.
func (c *Client) ListPRFiles(ctx context.Context, owner, repo string, number int) ([]models.FileSummary, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/files", owner, repo, number)

	var files []models.FileSummary
	for page := 1; ; page++ {
		query := url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}

		var wire []fileWire
		if err := c.getJSON(ctx, path, query, &wire); err != nil {
			return nil, err
		}

		for _, f := range wire {
			files = append(files, models.FileSummary{
				Filename:         f.Filename,
				PreviousFilename: f.PreviousFilename,
				Status:           f.Status,
				Additions:        f.Additions,
				Deletions:        f.Deletions,
				Changes:          f.Changes,
				SHA:              f.SHA,
				Patch:            f.Patch,
			})
		}

		if len(wire) < perPage {
			break
		}
	}

	return files, nil
}

// GetPRDiff fetches the file listing and the raw unified diff in one bundle.
// Stats are summed client-side from the file listing, not trusted from any
// single upstream field.
func (c *Client) GetPRDiff(ctx context.Context, owner, repo string, number int) (*models.PRDiff, error) {
	c.warnLowQuota(ctx)

	files, err := c.ListPRFiles(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number)
	resp, err := c.do(ctx, http.MethodGet, path, nil, acceptDiff, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read diff body: %w", err)
	}

	stats := models.DiffStats{ByStatus: make(map[string]int), ByLanguage: make(map[string]int)}
	for _, f := range files {
		stats.TotalFiles++
		stats.TotalAdditions += f.Additions
		stats.TotalDeletions += f.Deletions
		stats.TotalChanges += f.Additions + f.Deletions
		stats.ByStatus[f.Status]++
	}

	return &models.PRDiff{
		DiffText: string(raw),
		Files:    files,
		Stats:    stats,
	}, nil
}

// ListPRCommits pages through the PR commit listing like ListPRFiles.
func (c *Client) ListPRCommits(ctx context.Context, owner, repo string, number int) ([]models.CommitSummary, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/commits", owner, repo, number)

	var commits []models.CommitSummary
	for page := 1; ; page++ {
		query := url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}

		var wire []commitWire
		if err := c.getJSON(ctx, path, query, &wire); err != nil {
			return nil, err
		}

		for _, cw := range wire {
			commits = append(commits, models.CommitSummary{
				SHA:         cw.SHA,
				Message:     cw.Commit.Message,
				AuthorName:  cw.Commit.Author.Name,
				AuthorEmail: cw.Commit.Author.Email,
				AuthoredAt:  cw.Commit.Author.Date,
				HTMLURL:     cw.HTMLURL,
			})
		}

		if len(wire) < perPage {
			break
		}
	}

	return commits, nil
}
