// Package cache provides the time-expiring read caches in front of the
// table store. Partitions are independent; any write to a table flushes
// every partition it could make stale (broad invalidation, correctness
// over hit rate).
package cache

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/your-org/lpr/internal/config"
)

const listingKey = "all"

type Partitions struct {
	plate     *gocache.Cache
	listing   *gocache.Cache
	search    *gocache.Cache
	cameras   *gocache.Cache
	watchlist *gocache.Cache
	alerts    *gocache.Cache
}

func New(cfg config.CacheConfig) *Partitions {
	return &Partitions{
		plate:     gocache.New(cfg.PlateTTL, cfg.PlateTTL*2),
		listing:   gocache.New(cfg.ListingTTL, cfg.ListingTTL*2),
		search:    gocache.New(cfg.SearchTTL, cfg.SearchTTL*2),
		cameras:   gocache.New(cfg.CameraTTL, cfg.CameraTTL*2),
		watchlist: gocache.New(cfg.WatchlistTTL, cfg.WatchlistTTL*2),
		alerts:    gocache.New(cfg.AlertTTL, cfg.AlertTTL*2),
	}
}

func (p *Partitions) Plate(key string) (interface{}, bool) {
	return p.plate.Get(key)
}

func (p *Partitions) SetPlate(key string, v interface{}) {
	p.plate.Set(key, v, gocache.DefaultExpiration)
}

// Listing entries are keyed by the requested limit so a truncated
// listing is never served to a caller who asked for more rows.
func (p *Partitions) Listing(key string) (interface{}, bool) {
	return p.listing.Get(key)
}

func (p *Partitions) SetListing(key string, v interface{}) {
	p.listing.Set(key, v, gocache.DefaultExpiration)
}

func (p *Partitions) Search(key string) (interface{}, bool) {
	return p.search.Get(key)
}

func (p *Partitions) SetSearch(key string, v interface{}) {
	p.search.Set(key, v, gocache.DefaultExpiration)
}

func (p *Partitions) Cameras() (interface{}, bool) {
	return p.cameras.Get(listingKey)
}

func (p *Partitions) SetCameras(v interface{}) {
	p.cameras.Set(listingKey, v, gocache.DefaultExpiration)
}

func (p *Partitions) Watchlist() (interface{}, bool) {
	return p.watchlist.Get(listingKey)
}

func (p *Partitions) SetWatchlist(v interface{}) {
	p.watchlist.Set(listingKey, v, gocache.DefaultExpiration)
}

// Alert entries are keyed by the requested limit, like Listing.
func (p *Partitions) Alerts(key string) (interface{}, bool) {
	return p.alerts.Get(key)
}

func (p *Partitions) SetAlerts(key string, v interface{}) {
	p.alerts.Set(key, v, gocache.DefaultExpiration)
}

// InvalidatePlates flushes every partition a plate-table write could
// have made stale: the single-plate lookups, the full listing, and all
// cached search result sets.
func (p *Partitions) InvalidatePlates() {
	p.plate.Flush()
	p.listing.Flush()
	p.search.Flush()
}

func (p *Partitions) InvalidateCameras() {
	p.cameras.Flush()
}

func (p *Partitions) InvalidateWatchlist() {
	p.watchlist.Flush()
}

func (p *Partitions) InvalidateAlerts() {
	p.alerts.Flush()
}

func (p *Partitions) InvalidateAll() {
	p.InvalidatePlates()
	p.cameras.Flush()
	p.watchlist.Flush()
	p.alerts.Flush()
}
