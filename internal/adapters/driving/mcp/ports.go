package mcp

import (
	"github.com/Rupali110289/emiprdict/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Cache ensures artifacts and reports their state.
	Cache driving.CacheManager
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Cache == nil {
		return ErrMissingCacheManager
	}
	return nil
}
