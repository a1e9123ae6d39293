// Package domain defines the core business entities for emiprdict.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ArtifactSpec: A named remote artifact with its integrity floor
//   - ArtifactTable: The registered set of specs, unique by name
//   - LocalArtifact: The on-disk state of one artifact
//   - EnsureResult: The outcome of guaranteeing one artifact locally
//   - FetchRecord: One fetch attempt, kept for history
//   - Applicant / Features: Model input derivation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
