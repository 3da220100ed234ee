package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/lpr/internal/config"
)

func newTestPartitions() *Partitions {
	return New(config.CacheConfig{
		PlateTTL:     time.Minute,
		ListingTTL:   time.Minute,
		SearchTTL:    time.Minute,
		CameraTTL:    time.Minute,
		WatchlistTTL: time.Minute,
		AlertTTL:     time.Minute,
	})
}

func TestInvalidatePlatesFlushesAllPlateViews(t *testing.T) {
	p := newTestPartitions()

	p.SetPlate("AB1234", "plate")
	p.SetListing("1000", "listing")
	p.SetSearch("term|x", "search")
	p.SetCameras("cameras")
	p.SetWatchlist("watchlist")
	p.SetAlerts("100", "alerts")

	p.InvalidatePlates()

	_, ok := p.Plate("AB1234")
	assert.False(t, ok)
	_, ok = p.Listing("1000")
	assert.False(t, ok)
	_, ok = p.Search("term|x")
	assert.False(t, ok)

	// Unrelated partitions survive a plate write.
	v, ok := p.Cameras()
	assert.True(t, ok)
	assert.Equal(t, "cameras", v)
	_, ok = p.Watchlist()
	assert.True(t, ok)
	_, ok = p.Alerts("100")
	assert.True(t, ok)
}

func TestPartitionsAreIndependent(t *testing.T) {
	p := newTestPartitions()

	p.SetWatchlist("watchlist")
	p.SetAlerts("100", "alerts")

	p.InvalidateWatchlist()
	_, ok := p.Watchlist()
	assert.False(t, ok)
	_, ok = p.Alerts("100")
	assert.True(t, ok)

	p.InvalidateAlerts()
	_, ok = p.Alerts("100")
	assert.False(t, ok)
}

func TestInvalidateAll(t *testing.T) {
	p := newTestPartitions()

	p.SetPlate("AB1234", 1)
	p.SetCameras(2)
	p.SetWatchlist(3)
	p.SetAlerts("100", 4)

	p.InvalidateAll()

	_, ok := p.Plate("AB1234")
	assert.False(t, ok)
	_, ok = p.Cameras()
	assert.False(t, ok)
	_, ok = p.Watchlist()
	assert.False(t, ok)
	_, ok = p.Alerts("100")
	assert.False(t, ok)
}

func TestListingEntriesAreKeyedByLimit(t *testing.T) {
	p := newTestPartitions()

	p.SetListing("5", "five rows")
	p.SetAlerts("5", "five alerts")

	// A caller asking for a different limit must not get the truncated
	// entry back.
	_, ok := p.Listing("1000")
	assert.False(t, ok)
	_, ok = p.Alerts("1000")
	assert.False(t, ok)

	v, ok := p.Listing("5")
	assert.True(t, ok)
	assert.Equal(t, "five rows", v)
	v, ok = p.Alerts("5")
	assert.True(t, ok)
	assert.Equal(t, "five alerts", v)
}

func TestSearchKeysAreDistinct(t *testing.T) {
	p := newTestPartitions()

	p.SetSearch("a", "one")
	p.SetSearch("b", "two")

	v, ok := p.Search("a")
	assert.True(t, ok)
	assert.Equal(t, "one", v)
	v, ok = p.Search("b")
	assert.True(t, ok)
	assert.Equal(t, "two", v)
}
