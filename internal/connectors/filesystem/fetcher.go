package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rupali110289/emiprdict/internal/connectors"
	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
)

// Scheme is the locator scheme handled by this fetcher.
const Scheme = "file"

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Fetcher copies local files.
type Fetcher struct{}

// New creates a file fetcher.
func New() *Fetcher {
	return &Fetcher{}
}

// ResolvePath turns a file:// locator into a local path, expanding a
// leading "~/".
func ResolvePath(locator string) (string, error) {
	if connectors.Scheme(locator) != Scheme {
		return "", fmt.Errorf("%w: %q is not a file locator", domain.ErrInvalidInput, locator)
	}
	path := connectors.TrimScheme(locator)
	if path == "" {
		return "", fmt.Errorf("%w: empty file locator", domain.ErrInvalidInput)
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand home: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Clean(path), nil
}

// Fetch copies the file at locator into dst.
func (f *Fetcher) Fetch(ctx context.Context, locator string, dst io.Writer) (int64, error) {
	path, err := ResolvePath(locator)
	if err != nil {
		return 0, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("source %s does not exist: %w", path, err)
		}
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%w: source %s is not a regular file", domain.ErrInvalidInput, path)
	}

	n, err := io.Copy(dst, connectors.ContextReader{Ctx: ctx, R: file})
	if err != nil {
		return n, fmt.Errorf("copy %s: %w", path, err)
	}
	return n, nil
}
