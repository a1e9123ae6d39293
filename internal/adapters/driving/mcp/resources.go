package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

const (
	uriScheme = "artifacts://"

	// historyLimit caps records returned by the history resource.
	historyLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "artifacts",
		Name:        "artifacts",
		Description: "Registered artifacts with their local presence, size and validity",
		MIMEType:    "application/json",
	}, s.handleArtifactsResource)
	s.resources = append(s.resources, uriScheme+"artifacts")

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "artifacts/{name}/history",
		Name:        "artifact-history",
		Description: "Recent download attempts for one artifact, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
	s.resources = append(s.resources, uriScheme+"artifacts/{name}/history")
}

// handleArtifactsResource returns the status of every registered artifact.
func (s *Server) handleArtifactsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	statuses, err := s.ports.Cache.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}

	type artifactInfo struct {
		Name      string `json:"name"`
		Source    string `json:"source"`
		Path      string `json:"path"`
		SizeBytes int64  `json:"size_bytes"`
		MinSize   int64  `json:"min_size"`
		Present   bool   `json:"present"`
		Valid     bool   `json:"valid"`
	}

	infos := make([]artifactInfo, len(statuses))
	for i, st := range statuses {
		infos[i] = artifactInfo{
			Name:      st.Spec.Name,
			Source:    st.Spec.SourceLocator,
			Path:      st.Local.LocalPath,
			SizeBytes: st.Local.SizeBytes,
			MinSize:   st.Spec.MinimumValidSize,
			Present:   st.Local.Present,
			Valid:     st.Valid(),
		}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleHistoryResource returns recorded attempts for one artifact.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractArtifactName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Cache.History(ctx, name, historyLimit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("listing history: %w", err)
	}

	type recordInfo struct {
		CallID     string `json:"call_id"`
		Attempt    int    `json:"attempt"`
		Outcome    string `json:"outcome"`
		SizeBytes  int64  `json:"size_bytes"`
		Error      string `json:"error,omitempty"`
		StartedAt  string `json:"started_at"`
		DurationMS int64  `json:"duration_ms"`
	}

	infos := make([]recordInfo, len(records))
	for i, rec := range records {
		infos[i] = recordInfo{
			CallID:     rec.CallID,
			Attempt:    rec.Attempt,
			Outcome:    string(rec.Outcome),
			SizeBytes:  rec.SizeBytes,
			Error:      rec.Error,
			StartedAt:  rec.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
			DurationMS: rec.Duration.Milliseconds(),
		}
	}

	return jsonResult(req.Params.URI, infos)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractArtifactName extracts the name from artifacts://artifacts/{name}/history.
func extractArtifactName(uri string) string {
	const prefix = uriScheme + "artifacts/"
	const suffix = "/history"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return ""
	}
	name, ok := strings.CutSuffix(rest, suffix)
	if !ok || strings.Contains(name, "/") {
		return ""
	}
	return name
}
