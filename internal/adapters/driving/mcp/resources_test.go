package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractArtifactName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid history URI", uri: "artifacts://artifacts/model.pkl/history", expected: "model.pkl"},
		{name: "invalid prefix", uri: "file://artifacts/model.pkl/history", expected: ""},
		{name: "missing suffix", uri: "artifacts://artifacts/model.pkl", expected: ""},
		{name: "nested path", uri: "artifacts://artifacts/a/b/history", expected: ""},
		{name: "no name", uri: "artifacts://artifacts/history", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractArtifactName(tt.uri))
		})
	}
}

func TestServer_handleArtifactsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns artifact status", func(t *testing.T) {
		cache := &mockCacheManager{statuses: []domain.ArtifactStatus{
			{
				Spec:  domain.ArtifactSpec{Name: "model.pkl", SourceLocator: "gdrive://m", MinimumValidSize: 1000},
				Local: domain.LocalArtifact{Name: "model.pkl", LocalPath: "/c/model.pkl", SizeBytes: 50, Present: true},
			},
		}}
		server := newTestServer(t, cache)

		result, err := server.handleArtifactsResource(ctx, makeReadResourceRequest("artifacts://artifacts"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var infos []map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, "model.pkl", infos[0]["name"])
		assert.Equal(t, true, infos[0]["present"])
		assert.Equal(t, false, infos[0]["valid"])
	})

	t.Run("returns error on status failure", func(t *testing.T) {
		server := newTestServer(t, &mockCacheManager{err: errors.New("disk error")})

		_, err := server.handleArtifactsResource(ctx, makeReadResourceRequest("artifacts://artifacts"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing artifacts")
	})
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns records", func(t *testing.T) {
		cache := &mockCacheManager{records: []domain.FetchRecord{
			{
				CallID:    "c1",
				Name:      "model.pkl",
				Attempt:   2,
				Outcome:   domain.AttemptUndersized,
				SizeBytes: 12,
				StartedAt: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
				Duration:  1500 * time.Millisecond,
			},
		}}
		server := newTestServer(t, cache)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("artifacts://artifacts/model.pkl/history"))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"outcome": "undersized"`)
		assert.Contains(t, text, `"started_at": "2026-02-03T04:05:06Z"`)
		assert.Contains(t, text, `"duration_ms": 1500`)
		assert.Equal(t, "model.pkl", cache.historyName)
		assert.Equal(t, historyLimit, cache.historyLimit)
	})

	t.Run("unknown artifact is not found", func(t *testing.T) {
		server := newTestServer(t, &mockCacheManager{err: domain.ErrNotFound})

		_, err := server.handleHistoryResource(ctx, makeReadResourceRequest("artifacts://artifacts/x.pkl/history"))

		require.Error(t, err)
		assert.NotContains(t, err.Error(), "listing history")
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		server := newTestServer(t, &mockCacheManager{})

		_, err := server.handleHistoryResource(ctx, makeReadResourceRequest("artifacts://other"))

		require.Error(t, err)
	})
}
