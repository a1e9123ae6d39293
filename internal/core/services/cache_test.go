package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

const (
	modelName    = "best_eligibility_model.pkl"
	modelLocator = "https://models.example.com/elig.pkl"
)

func TestCacheManager_Ensure_HealthySourceMeetsMinimum(t *testing.T) {
	f := newCacheFixture(testSpecs()).healthy()
	ctx := context.Background()

	for _, spec := range testSpecs() {
		t.Run(spec.Name, func(t *testing.T) {
			res, err := f.manager.Ensure(ctx, spec.Name, false)

			require.NoError(t, err)
			assert.True(t, res.Validated())
			assert.Equal(t, filepath.Join("/cfg", "models", spec.Name), res.Path)
			assert.GreaterOrEqual(t, res.SizeBytes, spec.MinimumValidSize)
			assert.Equal(t, 1, res.Attempts)
			assert.Equal(t, 1, res.Fetches)

			local, err := f.store.Stat(spec.Name)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, local.SizeBytes, spec.MinimumValidSize)
		})
	}
	assert.Zero(t, f.sleeper.count())
}

func TestCacheManager_Ensure_UnknownNameHasNoSideEffects(t *testing.T) {
	f := newCacheFixture(testSpecs()).healthy()

	res, err := f.manager.Ensure(context.Background(), "unknown.pkl", false)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "unknown.pkl")
	assert.Zero(t, f.fetcher.TotalCalls())
	for _, spec := range testSpecs() {
		_, held := f.store.Bytes(spec.Name)
		assert.False(t, held)
	}
	records, _ := f.history.List(context.Background(), "", 0)
	assert.Empty(t, records)
}

func TestCacheManager_Ensure_AlwaysUndersizedStopsAtMaxAttempts(t *testing.T) {
	f := newCacheFixture(testSpecs())
	f.fetcher.script(modelLocator, full(10))

	res, err := f.manager.Ensure(context.Background(), modelName, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIntegrityFailure)
	assert.NotErrorIs(t, err, domain.ErrFetchFailure)

	var ie *domain.IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, modelName, ie.Name)
	assert.Equal(t, 3, ie.Attempts)
	assert.Equal(t, int64(10), ie.SizeBytes)
	assert.Equal(t, int64(1000), ie.MinimumValidSize)

	require.NotNil(t, res)
	assert.Equal(t, domain.EnsureGaveUp, res.Status)
	assert.False(t, res.Validated())
	assert.Equal(t, res.Path, ie.Path)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, res.Fetches)
	assert.Equal(t, 3, f.fetcher.Calls(modelLocator))

	// Backoff between attempts, none after the last.
	assert.Equal(t, []time.Duration{time.Second, time.Second}, f.sleeper.sleeps)

	local, _ := f.store.Stat(modelName)
	assert.False(t, local.Present)
}

func TestCacheManager_Ensure_MaxAttemptsIsConfigurable(t *testing.T) {
	table, err := domain.NewArtifactTable(testSpecs())
	require.NoError(t, err)

	f := newCacheFixture(testSpecs())
	settings := domain.DefaultCacheSettings("/cfg")
	settings.MaxAttempts = 5
	settings.Backoff = 250 * time.Millisecond
	f.manager = NewCacheManager(table, f.store, f.fetcher, f.history, settings)
	f.manager.sleep = f.sleeper.sleep
	f.fetcher.script(modelLocator, full(1))

	res, err := f.manager.Ensure(context.Background(), modelName, false)

	assert.ErrorIs(t, err, domain.ErrIntegrityFailure)
	assert.Equal(t, 5, res.Attempts)
	assert.Equal(t, 5, f.fetcher.Calls(modelLocator))
	assert.Len(t, f.sleeper.sleeps, 4)
	assert.Equal(t, 250*time.Millisecond, f.sleeper.sleeps[0])
}

func TestCacheManager_Ensure_RecoversOnLaterAttempt(t *testing.T) {
	f := newCacheFixture(testSpecs())
	f.fetcher.script(modelLocator, full(10), full(2000))

	res, err := f.manager.Ensure(context.Background(), modelName, false)

	require.NoError(t, err)
	assert.True(t, res.Validated())
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 2, res.Fetches)
	assert.Equal(t, int64(2000), res.SizeBytes)
	assert.Equal(t, 1, f.sleeper.count())

	records, err := f.history.List(context.Background(), modelName, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.AttemptFetched, records[0].Outcome)
	assert.Equal(t, 2, records[0].Attempt)
	assert.Equal(t, domain.AttemptUndersized, records[1].Outcome)
	assert.Equal(t, records[0].CallID, records[1].CallID)
}

func TestCacheManager_Ensure_FetchFailureRetriedLikeUndersized(t *testing.T) {
	f := newCacheFixture(testSpecs())
	f.fetcher.script(modelLocator, failed("connection refused"), full(1500))

	res, err := f.manager.Ensure(context.Background(), modelName, false)

	require.NoError(t, err)
	assert.True(t, res.Validated())
	assert.Equal(t, 2, res.Fetches)
	assert.ErrorIs(t, res.LastErr, domain.ErrFetchFailure)

	records, _ := f.history.List(context.Background(), modelName, 0)
	require.Len(t, records, 2)
	assert.Equal(t, domain.AttemptFetchFailed, records[1].Outcome)
	assert.Contains(t, records[1].Error, "connection refused")
}

func TestCacheManager_Ensure_AllFetchesFailWrapsLastError(t *testing.T) {
	f := newCacheFixture(testSpecs())
	f.fetcher.script(modelLocator, failed("dns"), failed("timeout"), failed("503"))

	res, err := f.manager.Ensure(context.Background(), modelName, false)

	assert.ErrorIs(t, err, domain.ErrIntegrityFailure)
	assert.ErrorIs(t, err, domain.ErrFetchFailure)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, int64(0), res.SizeBytes)
	assert.Equal(t, 3, f.fetcher.Calls(modelLocator))
}

func TestCacheManager_Ensure_ForceFetchesEvenWhenValid(t *testing.T) {
	f := newCacheFixture(testSpecs())
	f.store.Put(modelName, make([]byte, 5000))
	f.fetcher.script(modelLocator, full(1200))

	res, err := f.manager.Ensure(context.Background(), modelName, true)

	require.NoError(t, err)
	assert.True(t, res.Forced)
	assert.Equal(t, 1, res.Fetches)
	assert.Equal(t, 1, f.fetcher.Calls(modelLocator))

	data, _ := f.store.Bytes(modelName)
	assert.Len(t, data, 1200)
}

func TestCacheManager_Ensure_ForceFetchesWhenDeleteFails(t *testing.T) {
	f := newCacheFixture(testSpecs())
	f.store.Put(modelName, make([]byte, 5000))
	f.store.RemoveErr = errors.New("permission denied")
	f.fetcher.script(modelLocator, full(1200))

	res, err := f.manager.Ensure(context.Background(), modelName, true)

	require.NoError(t, err)
	assert.Equal(t, 1, f.fetcher.Calls(modelLocator))
	assert.Equal(t, int64(1200), res.SizeBytes)
}

func TestCacheManager_Ensure_SecondCallIsCacheHit(t *testing.T) {
	f := newCacheFixture(testSpecs()).healthy()
	ctx := context.Background()

	first, err := f.manager.Ensure(ctx, modelName, false)
	require.NoError(t, err)
	assert.False(t, first.CacheHit())

	second, err := f.manager.Ensure(ctx, modelName, false)
	require.NoError(t, err)

	assert.True(t, second.CacheHit())
	assert.Equal(t, 0, second.Fetches)
	assert.Equal(t, 1, f.fetcher.Calls(modelLocator))
	assert.Equal(t, first.Path, second.Path)

	records, _ := f.history.List(ctx, modelName, 1)
	require.Len(t, records, 1)
	assert.Equal(t, domain.AttemptCacheHit, records[0].Outcome)
}

func TestCacheManager_Ensure_UndersizedLocalCopyIsReplaced(t *testing.T) {
	f := newCacheFixture(testSpecs())
	f.store.Put(modelName, []byte("truncated"))
	f.fetcher.script(modelLocator, full(1000))

	res, err := f.manager.Ensure(context.Background(), modelName, false)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 1, res.Fetches)
	assert.Equal(t, int64(1000), res.SizeBytes)
}

func TestCacheManager_Ensure_CancelledContext(t *testing.T) {
	f := newCacheFixture(testSpecs()).healthy()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.manager.Ensure(ctx, modelName, false)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.EnsureGaveUp, res.Status)
	assert.Zero(t, f.fetcher.TotalCalls())
}

func TestCacheManager_Ensure_CancelledDuringBackoff(t *testing.T) {
	f := newCacheFixture(testSpecs())
	f.fetcher.script(modelLocator, full(1))
	f.sleeper.err = context.Canceled

	res, err := f.manager.Ensure(context.Background(), modelName, false)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrIntegrityFailure)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, f.fetcher.Calls(modelLocator))
}

func TestCacheManager_Ensure_FetchTimeout(t *testing.T) {
	table, err := domain.NewArtifactTable(testSpecs())
	require.NoError(t, err)

	f := newCacheFixture(testSpecs())
	settings := domain.DefaultCacheSettings("/cfg")
	settings.MaxAttempts = 1
	settings.FetchTimeout = 20 * time.Millisecond
	manager := NewCacheManager(table, f.store, blockingFetcher{}, f.history, settings)

	res, err := manager.Ensure(context.Background(), modelName, false)

	assert.ErrorIs(t, err, domain.ErrIntegrityFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, res.Fetches)
}

func TestCacheManager_Ensure_HistoryDisabled(t *testing.T) {
	table, err := domain.NewArtifactTable(testSpecs())
	require.NoError(t, err)

	f := newCacheFixture(testSpecs()).healthy()
	settings := domain.DefaultCacheSettings("/cfg")
	settings.HistoryEnabled = false
	manager := NewCacheManager(table, f.store, f.fetcher, f.history, settings)

	_, err = manager.Ensure(context.Background(), modelName, false)
	require.NoError(t, err)

	records, _ := f.history.List(context.Background(), "", 0)
	assert.Empty(t, records)
}

func TestCacheManager_Ensure_NotConfigured(t *testing.T) {
	table, err := domain.NewArtifactTable(testSpecs())
	require.NoError(t, err)

	manager := NewCacheManager(table, nil, nil, nil, domain.DefaultCacheSettings("/cfg"))

	_, err = manager.Ensure(context.Background(), modelName, false)
	assert.ErrorContains(t, err, "not configured")
}

func TestCacheManager_EnsureAll_NotConfiguredCountsEveryFailure(t *testing.T) {
	table, err := domain.NewArtifactTable(testSpecs())
	require.NoError(t, err)

	manager := NewCacheManager(table, nil, nil, nil, domain.DefaultCacheSettings("/cfg"))

	report, err := manager.EnsureAll(context.Background(), false)

	require.Error(t, err)
	assert.Empty(t, report.Results)
	assert.Equal(t, len(testSpecs()), report.Failed())
	for _, spec := range testSpecs() {
		assert.Contains(t, report.Errors, spec.Name)
	}
}

func TestCacheManager_EnsureAll_AttemptsEveryNameOnce(t *testing.T) {
	f := newCacheFixture(testSpecs()).healthy()
	// The first artifact never validates; the rest must still be attempted.
	f.fetcher.script(modelLocator, full(3))

	report, err := f.manager.EnsureAll(context.Background(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIntegrityFailure)
	assert.Contains(t, err.Error(), modelName)

	require.NotNil(t, report)
	require.Len(t, report.Results, 3)
	for i, spec := range testSpecs() {
		assert.Equal(t, spec.Name, report.Results[i].Name)
	}
	assert.Equal(t, 2, report.Validated())
	assert.Equal(t, 1, report.Failed())
	assert.Contains(t, report.Errors, modelName)

	assert.Equal(t, 3, f.fetcher.Calls(modelLocator))
	assert.Equal(t, 1, f.fetcher.Calls("gdrive://scaler-id"))
	assert.Equal(t, 1, f.fetcher.Calls("github://acme/emi/v1/features.pkl"))
}

func TestCacheManager_EnsureAll_Force(t *testing.T) {
	f := newCacheFixture(testSpecs()).healthy()
	ctx := context.Background()

	_, err := f.manager.EnsureAll(ctx, false)
	require.NoError(t, err)

	report, err := f.manager.EnsureAll(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Validated())
	for _, res := range report.Results {
		assert.True(t, res.Forced)
		assert.Equal(t, 1, res.Fetches)
	}
	assert.Equal(t, 6, f.fetcher.TotalCalls())
}

func TestCacheManager_Status(t *testing.T) {
	f := newCacheFixture(testSpecs())
	f.store.Put(modelName, make([]byte, 1000))
	f.store.Put("eligibility_scaler.pkl", make([]byte, 10))

	statuses, err := f.manager.Status(context.Background())

	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.True(t, statuses[0].Valid())
	assert.True(t, statuses[1].Local.Present)
	assert.False(t, statuses[1].Valid())
	assert.False(t, statuses[2].Local.Present)
	assert.Zero(t, f.fetcher.TotalCalls())
}

func TestCacheManager_History(t *testing.T) {
	f := newCacheFixture(testSpecs()).healthy()
	ctx := context.Background()

	_, err := f.manager.EnsureAll(ctx, false)
	require.NoError(t, err)

	all, err := f.manager.History(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	one, err := f.manager.History(ctx, modelName, 10)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, modelLocator, one[0].Locator)

	_, err = f.manager.History(ctx, "unknown.pkl", 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCacheManager_History_WithoutStore(t *testing.T) {
	table, err := domain.NewArtifactTable(testSpecs())
	require.NoError(t, err)
	f := newCacheFixture(testSpecs())
	manager := NewCacheManager(table, f.store, f.fetcher, nil, domain.DefaultCacheSettings("/cfg"))

	records, err := manager.History(context.Background(), "", 0)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCacheManager_Specs(t *testing.T) {
	f := newCacheFixture(testSpecs())

	specs := f.manager.Specs()

	assert.Equal(t, testSpecs(), specs)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
