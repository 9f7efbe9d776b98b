package aiservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlane/reviewlane/internal/retry"
	"github.com/reviewlane/reviewlane/pkg/models"
)

func testClient(srv *httptest.Server) *Client {
	c := NewClient(srv.URL, "test-key")
	c.retry = retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2.0}
	return c
}

func TestIngest(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody models.ReviewPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/ingest", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(IngestResponse{ReviewID: "rev-123", Status: "queued"})
	}))
	defer srv.Close()

	payload := &models.ReviewPayload{Title: "Fix login", BaseRef: "main"}
	out, err := testClient(srv).Ingest(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "rev-123", out.ReviewID)
	assert.Equal(t, "queued", out.Status)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Fix login", gotBody.Title)
}

func TestQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/query", r.URL.Path)
		var req QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "acme", req.Owner)
		json.NewEncoder(w).Encode(QueryResponse{Answer: "looks fine"})
	}))
	defer srv.Close()

	out, err := testClient(srv).Query(context.Background(), QueryRequest{
		Owner: "acme", Repo: "widgets", Question: "any risky changes?",
	})
	require.NoError(t, err)
	assert.Equal(t, "looks fine", out.Answer)
}

func TestDeleteRepo(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := testClient(srv).DeleteRepo(context.Background(), "acme", "widgets")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/v1/repos/acme/widgets", gotPath)
}

func TestRetriesTransientFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(IngestResponse{ReviewID: "rev-456", Status: "queued"})
	}))
	defer srv.Close()

	out, err := testClient(srv).Ingest(context.Background(), &models.ReviewPayload{})
	require.NoError(t, err)
	assert.Equal(t, "rev-456", out.ReviewID)
	assert.Equal(t, 2, calls)
}

func TestClientErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv).Ingest(context.Background(), &models.ReviewPayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, 1, calls)
}
