// Package connectors provides Fetcher implementations for the remote sources
// an artifact can live on. Each fetcher knows how to stream the bytes behind
// one locator scheme (https, gdrive, github, file).
//
// Fetchers are registered with the Registry at startup, which routes each
// locator to the fetcher for its scheme.
package connectors
