package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Rupali110289/emiprdict/internal/adapters/driven/config/file"
	"github.com/Rupali110289/emiprdict/internal/adapters/driven/storage/filesystem"
	"github.com/Rupali110289/emiprdict/internal/adapters/driven/storage/sqlite"
	"github.com/Rupali110289/emiprdict/internal/adapters/driving/cli"
	"github.com/Rupali110289/emiprdict/internal/connectors"
	fsconnector "github.com/Rupali110289/emiprdict/internal/connectors/filesystem"
	"github.com/Rupali110289/emiprdict/internal/connectors/github"
	"github.com/Rupali110289/emiprdict/internal/connectors/google"
	"github.com/Rupali110289/emiprdict/internal/connectors/google/drive"
	"github.com/Rupali110289/emiprdict/internal/connectors/web"
	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
	"github.com/Rupali110289/emiprdict/internal/core/services"
	"github.com/Rupali110289/emiprdict/internal/logger"
)

const dataDirName = "data"

// bootstrap wires the adapters for configDir. Settings always load; when the
// manifest or cache cannot be opened the cache services are left out and
// the reason is reported through Services.CacheErr.
func bootstrap(ctx context.Context, configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config directory: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, configDir)
	out := &cli.Services{Settings: settingsService}

	settings, err := settingsService.Get()
	if err != nil {
		out.CacheErr = err
		return out, nil
	}
	out.CacheDir = settings.CacheDir

	table, err := file.LoadManifest(settings.ManifestPath)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w (create it with [[artifact]] entries)", err)
		}
		out.CacheErr = err
		return out, nil
	}

	store, err := filesystem.NewArtifactStore(settings.CacheDir)
	if err != nil {
		out.CacheErr = err
		return out, nil
	}
	if n, err := store.CleanTemp(); err != nil {
		logger.Warn("Failed to clean temp files in %s: %v", settings.CacheDir, err)
	} else if n > 0 {
		logger.Debug("Removed %d leftover temp files", n)
	}

	var db *sqlite.Store
	if settings.HistoryEnabled {
		db, err = sqlite.NewStore(filepath.Join(configDir, dataDirName))
		if err != nil {
			logger.Warn("History disabled: %v", err)
			db = nil
		}
	}

	cache := services.NewCacheManager(table, store, newFetcher(ctx, settings), historyOf(db), *settings)
	out.Cache = cache
	out.Loader = services.NewArtifactLoader(cache)

	if settings.RevalidateInterval > 0 {
		out.Revalidator = services.NewRevalidator(cache, historyOf(db), settings.RevalidateInterval, settings.HistoryRetention)
	}

	if db != nil {
		out.Close = db.Close
	}
	return out, nil
}

// newFetcher registers a fetcher for every supported locator scheme.
func newFetcher(ctx context.Context, settings *domain.CacheSettings) *connectors.Registry {
	registry := connectors.NewRegistry()

	webFetcher := web.NewFetcher(web.Options{
		RequestsPerSecond: settings.RequestsPerSecond,
		Burst:             settings.Burst,
		UserAgent:         "emiprdict/" + version,
	})
	registry.Register("https", webFetcher)
	registry.Register("http", webFetcher)

	creds := google.Credentials{
		APIKey:      settings.DriveAPIKey,
		AccessToken: settings.DriveAccessToken,
	}
	if svc, err := google.NewDriveService(ctx, creds); err != nil {
		logger.Warn("gdrive:// locators unavailable: %v", err)
	} else {
		limiter := google.NewRateLimiterWithConfig(google.RateLimitConfig{
			RequestsPerSecond: settings.RequestsPerSecond,
			BurstSize:         settings.Burst,
		})
		registry.Register(drive.Scheme, drive.NewFetcher(svc, limiter))
	}

	gh := github.NewClient(ctx, settings.GitHubToken, settings.RequestsPerSecond)
	registry.Register(github.Scheme, github.NewFetcher(gh))

	registry.Register(fsconnector.Scheme, fsconnector.New())

	logger.Debug("Locator schemes: %v", registry.SupportedSchemes())
	return registry
}

// historyOf returns the store's history, or a nil interface without a store.
func historyOf(db *sqlite.Store) driven.FetchHistoryStore {
	if db == nil {
		return nil
	}
	return db.HistoryStore()
}
