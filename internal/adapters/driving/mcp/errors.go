// Package mcp provides an MCP (Model Context Protocol) server adapter for emiprdict.
// It lets AI assistants ensure model artifacts and engineer applicant features.
package mcp

import "errors"

// ErrMissingCacheManager is returned when the cache manager is not provided.
var ErrMissingCacheManager = errors.New("mcp: cache manager is required")
