package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

// EnsureInput is the input schema for the ensure_artifact tool.
type EnsureInput struct {
	Name  string `json:"name" jsonschema:"registered artifact name, e.g. best_eligibility_model.pkl"`
	Force bool   `json:"force,omitempty" jsonschema:"discard the local copy and download again"`
}

// EnsureOutput is the output schema for the ensure_artifact tool.
type EnsureOutput struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Status    string `json:"status"`
	Validated bool   `json:"validated"`
	SizeBytes int64  `json:"size_bytes"`
	Attempts  int    `json:"attempts"`
	Fetches   int    `json:"fetches"`
	Error     string `json:"error,omitempty"`
}

// FeaturesInput is the input schema for the engineer_features tool.
type FeaturesInput struct {
	Applicant    domain.Applicant `json:"applicant" jsonschema:"applicant financial profile"`
	FeatureNames []string         `json:"feature_names,omitempty" jsonschema:"model feature order; when set a vector is returned in this order"`
}

// FeaturesOutput is the output schema for the engineer_features tool.
type FeaturesOutput struct {
	Features map[string]float64 `json:"features"`
	Vector   []float64          `json:"vector,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ensure_artifact",
		Description: "Make a model artifact available locally, downloading and size-checking it if needed",
	}, s.handleEnsure)
	s.tools = append(s.tools, "ensure_artifact")

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "engineer_features",
		Description: "Derive EMI model features (expenses, savings, ratios) from an applicant profile",
	}, s.handleEngineerFeatures)
	s.tools = append(s.tools, "engineer_features")
}

// handleEnsure handles the ensure_artifact tool invocation.
// An integrity failure is reported in the output rather than as a tool error.
func (s *Server) handleEnsure(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EnsureInput,
) (*mcp.CallToolResult, EnsureOutput, error) {
	res, err := s.ports.Cache.Ensure(ctx, input.Name, input.Force)
	if res == nil {
		return nil, EnsureOutput{}, err
	}

	output := EnsureOutput{
		Name:      res.Name,
		Path:      res.Path,
		Status:    string(res.Status),
		Validated: res.Validated(),
		SizeBytes: res.SizeBytes,
		Attempts:  res.Attempts,
		Fetches:   res.Fetches,
	}
	if err != nil {
		var integrity *domain.IntegrityError
		if !errors.As(err, &integrity) {
			return nil, EnsureOutput{}, err
		}
		output.Error = err.Error()
	}
	return nil, output, nil
}

// handleEngineerFeatures handles the engineer_features tool invocation.
func (s *Server) handleEngineerFeatures(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FeaturesInput,
) (*mcp.CallToolResult, FeaturesOutput, error) {
	if err := input.Applicant.Validate(); err != nil {
		return nil, FeaturesOutput{}, err
	}

	features := input.Applicant.Features()
	output := FeaturesOutput{Features: features}

	if len(input.FeatureNames) > 0 {
		vec, err := features.Vector(input.FeatureNames)
		if err != nil {
			return nil, FeaturesOutput{}, err
		}
		output.Vector = vec
	}
	return nil, output, nil
}
