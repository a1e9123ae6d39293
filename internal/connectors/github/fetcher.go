package github

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Rupali110289/emiprdict/internal/connectors"
	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
	"github.com/Rupali110289/emiprdict/internal/logger"
)

// Scheme is the locator scheme handled by this fetcher.
const Scheme = "github"

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// AssetRef identifies one release asset.
type AssetRef struct {
	Owner string
	Repo  string
	Tag   string
	Asset string
}

// ParseLocator splits github://owner/repo/tag/asset.
func ParseLocator(locator string) (AssetRef, error) {
	if connectors.Scheme(locator) != Scheme {
		return AssetRef{}, fmt.Errorf("%w: %q is not a github locator", domain.ErrInvalidInput, locator)
	}
	parts := strings.Split(connectors.TrimScheme(locator), "/")
	if len(parts) != 4 {
		return AssetRef{}, fmt.Errorf("%w: want github://owner/repo/tag/asset, got %q",
			domain.ErrInvalidInput, locator)
	}
	for _, p := range parts {
		if p == "" {
			return AssetRef{}, fmt.Errorf("%w: empty segment in %q", domain.ErrInvalidInput, locator)
		}
	}
	return AssetRef{Owner: parts[0], Repo: parts[1], Tag: parts[2], Asset: parts[3]}, nil
}

// Fetcher downloads GitHub release assets.
type Fetcher struct {
	client *Client
}

// NewFetcher creates a release-asset fetcher.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch resolves the release, finds the named asset and streams it into dst.
func (f *Fetcher) Fetch(ctx context.Context, locator string, dst io.Writer) (int64, error) {
	ref, err := ParseLocator(locator)
	if err != nil {
		return 0, err
	}

	release, err := f.client.GetRelease(ctx, ref.Owner, ref.Repo, ref.Tag)
	if err != nil {
		return 0, err
	}

	var assetID int64
	for _, a := range release.Assets {
		if a.GetName() == ref.Asset {
			assetID = a.GetID()
			break
		}
	}
	if assetID == 0 {
		return 0, fmt.Errorf("%w: %s in %s/%s@%s", ErrAssetNotFound, ref.Asset, ref.Owner, ref.Repo, release.GetTagName())
	}

	logger.Debug("Downloading %s from %s/%s@%s", ref.Asset, ref.Owner, ref.Repo, release.GetTagName())

	rc, err := f.client.DownloadReleaseAsset(ctx, ref.Owner, ref.Repo, assetID)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	n, err := io.Copy(dst, rc)
	if err != nil {
		return n, fmt.Errorf("read asset %s: %w", ref.Asset, err)
	}
	return n, nil
}
