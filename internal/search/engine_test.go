package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/lpr/internal/cache"
	"github.com/your-org/lpr/internal/config"
	"github.com/your-org/lpr/internal/models"
	"github.com/your-org/lpr/internal/storage"
)

type fakeQuerier struct {
	calls   int
	lastQ   storage.PlateQuery
	results []models.Plate
	err     error
}

func (f *fakeQuerier) SearchPlates(_ context.Context, q storage.PlateQuery) ([]models.Plate, error) {
	f.calls++
	f.lastQ = q
	return f.results, f.err
}

func newTestEngine(t *testing.T, store *fakeQuerier) *Engine {
	t.Helper()
	f, err := NewFormatter("Asia/Bangkok", false)
	require.NoError(t, err)
	parts := cache.New(config.CacheConfig{
		PlateTTL:     time.Minute,
		ListingTTL:   time.Minute,
		SearchTTL:    time.Minute,
		CameraTTL:    time.Minute,
		WatchlistTTL: time.Minute,
		AlertTTL:     time.Minute,
	})
	return NewEngine(store, parts, f)
}

func bangkokTime(hour int) time.Time {
	loc, _ := time.LoadLocation("Asia/Bangkok")
	return time.Date(2023, 6, 15, hour, 0, 0, 0, loc)
}

func TestSearchComposesRemotePredicates(t *testing.T) {
	store := &fakeQuerier{}
	e := newTestEngine(t, store)
	loc, _ := time.LoadLocation("Asia/Bangkok")

	dates, err := ParseDateRange("01/01/2023", "02/01/2023", "", "", "", "", loc)
	require.NoError(t, err)

	e.Search(context.Background(), Params{
		Term:     "ABC",
		Province: "Bangkok",
		CameraID: "cam-1",
		Dates:    dates,
		Limit:    50,
	})

	require.Equal(t, 1, store.calls)
	assert.Equal(t, "ABC", store.lastQ.Term)
	assert.Equal(t, "Bangkok", store.lastQ.Province)
	assert.Equal(t, "cam-1", store.lastQ.CameraID)
	assert.Equal(t, 50, store.lastQ.Limit)
	require.NotNil(t, store.lastQ.From)
	require.NotNil(t, store.lastQ.To)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, loc), *store.lastQ.From)
	assert.Equal(t, time.Date(2023, 1, 3, 0, 0, 0, 0, loc), *store.lastQ.To)
}

func TestSearchClampsLimit(t *testing.T) {
	store := &fakeQuerier{}
	e := newTestEngine(t, store)

	e.Search(context.Background(), Params{Limit: 0})
	assert.Equal(t, MaxLimit, store.lastQ.Limit)

	e.Search(context.Background(), Params{Limit: 999999, Term: "x"})
	assert.Equal(t, MaxLimit, store.lastQ.Limit)
}

func TestSearchHourWindowWraparound(t *testing.T) {
	store := &fakeQuerier{results: []models.Plate{
		{ID: uuid.New(), Plate: "AT23", Timestamp: bangkokTime(23)},
		{ID: uuid.New(), Plate: "AT01", Timestamp: bangkokTime(1)},
		{ID: uuid.New(), Plate: "AT12", Timestamp: bangkokTime(12)},
	}}
	e := newTestEngine(t, store)

	results := e.Search(context.Background(), Params{
		Hours: &HourWindow{Start: 22, End: 4},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "AT23", results[0].Plate)
	assert.Equal(t, "AT01", results[1].Plate)
}

func TestSearchFormatsTimestamps(t *testing.T) {
	store := &fakeQuerier{results: []models.Plate{
		{ID: uuid.New(), Plate: "AB1234", Timestamp: time.Date(2023, 6, 15, 7, 30, 45, 0, time.UTC)},
	}}
	e := newTestEngine(t, store)

	results := e.Search(context.Background(), Params{Term: "AB"})
	require.Len(t, results, 1)
	assert.Equal(t, "15/06/2023 14:30:45", results[0].Timestamp)
}

func TestSearchErrorYieldsEmptyResult(t *testing.T) {
	store := &fakeQuerier{err: errors.New("connection refused")}
	e := newTestEngine(t, store)

	results := e.Search(context.Background(), Params{Term: "AB"})
	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchErrorIsNotCached(t *testing.T) {
	store := &fakeQuerier{err: errors.New("connection refused")}
	e := newTestEngine(t, store)

	e.Search(context.Background(), Params{Term: "AB"})
	require.Equal(t, 1, store.calls)

	// The empty failure result is not cached, so the same query reaches
	// the store again once it recovers.
	store.err = nil
	store.results = []models.Plate{{ID: uuid.New(), Plate: "AB1234", Timestamp: time.Now()}}
	e.Search(context.Background(), Params{Term: "AB"})
	assert.Equal(t, 2, store.calls)
}

func TestSearchCachesResults(t *testing.T) {
	store := &fakeQuerier{results: []models.Plate{
		{ID: uuid.New(), Plate: "AB1234", Timestamp: time.Now()},
	}}
	e := newTestEngine(t, store)

	first := e.Search(context.Background(), Params{Term: "AB", Limit: 10})
	second := e.Search(context.Background(), Params{Term: "AB", Limit: 10})

	assert.Equal(t, 1, store.calls)
	assert.Equal(t, first, second)

	// A different parameter tuple is a different cache entry.
	e.Search(context.Background(), Params{Term: "CD", Limit: 10})
	assert.Equal(t, 2, store.calls)

	// Hour window participates in the key.
	e.Search(context.Background(), Params{Term: "AB", Limit: 10, Hours: &HourWindow{Start: 8, End: 17}})
	assert.Equal(t, 3, store.calls)
}
