package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Rupali110289/emiprdict/internal/adapters/driven/storage/memory"
	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

// --- Mock implementations for cache testing ---

// fetchResponse is one scripted reply of mockFetcher.
type fetchResponse struct {
	body []byte
	err  error
}

// mockFetcher implements driven.Fetcher with scripted replies per locator.
// Once a script is exhausted its last reply repeats.
type mockFetcher struct {
	mu      sync.Mutex
	scripts map[string][]fetchResponse
	calls   map[string]int
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		scripts: make(map[string][]fetchResponse),
		calls:   make(map[string]int),
	}
}

func (f *mockFetcher) script(locator string, replies ...fetchResponse) *mockFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[locator] = replies
	return f
}

func (f *mockFetcher) Fetch(ctx context.Context, locator string, dst io.Writer) (int64, error) {
	f.mu.Lock()
	n := f.calls[locator]
	f.calls[locator]++
	replies := f.scripts[locator]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(replies) == 0 {
		return 0, fmt.Errorf("%w: no reply scripted for %s", domain.ErrFetchFailure, locator)
	}
	if n >= len(replies) {
		n = len(replies) - 1
	}
	reply := replies[n]
	if reply.err != nil {
		return 0, reply.err
	}
	written, err := dst.Write(reply.body)
	return int64(written), err
}

func (f *mockFetcher) Calls(locator string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[locator]
}

func (f *mockFetcher) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// blockingFetcher waits for ctx to end.
type blockingFetcher struct{}

func (blockingFetcher) Fetch(ctx context.Context, _ string, _ io.Writer) (int64, error) {
	<-ctx.Done()
	return 0, fmt.Errorf("%w: %w", domain.ErrFetchFailure, ctx.Err())
}

// sleepRecorder replaces the backoff sleep.
type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
	err    error
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = append(s.sleeps, d)
	return s.err
}

func (s *sleepRecorder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sleeps)
}

// full returns n bytes of payload.
func full(n int) fetchResponse {
	return fetchResponse{body: make([]byte, n)}
}

func failed(msg string) fetchResponse {
	return fetchResponse{err: fmt.Errorf("%w: %s", domain.ErrFetchFailure, msg)}
}

type cacheFixture struct {
	manager *CacheManager
	store   *memory.ArtifactStore
	history *memory.HistoryStore
	fetcher *mockFetcher
	sleeper *sleepRecorder
	table   *domain.ArtifactTable
}

func testSpecs() []domain.ArtifactSpec {
	return []domain.ArtifactSpec{
		{Name: "best_eligibility_model.pkl", SourceLocator: "https://models.example.com/elig.pkl", MinimumValidSize: 1000},
		{Name: "eligibility_scaler.pkl", SourceLocator: "gdrive://scaler-id", MinimumValidSize: 200},
		{Name: "eligibility_features.pkl", SourceLocator: "github://acme/emi/v1/features.pkl", MinimumValidSize: 50},
	}
}

func newCacheFixture(specs []domain.ArtifactSpec) *cacheFixture {
	table, err := domain.NewArtifactTable(specs)
	if err != nil {
		panic(err)
	}

	settings := domain.DefaultCacheSettings("/cfg")
	store := memory.NewArtifactStore(settings.CacheDir)
	history := memory.NewHistoryStore()
	fetcher := newMockFetcher()
	sleeper := &sleepRecorder{}

	manager := NewCacheManager(table, store, fetcher, history, settings)
	manager.sleep = sleeper.sleep

	return &cacheFixture{
		manager: manager,
		store:   store,
		history: history,
		fetcher: fetcher,
		sleeper: sleeper,
		table:   table,
	}
}

// healthy scripts a full-size reply for every spec.
func (f *cacheFixture) healthy() *cacheFixture {
	for _, spec := range f.table.Specs() {
		f.fetcher.script(spec.SourceLocator, full(int(spec.MinimumValidSize)+10))
	}
	return f
}
