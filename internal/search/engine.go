// Package search implements the plate search/filter engine: it composes
// the optional filter dimensions into one remote query, applies the
// hour-of-day window locally (the stored timestamp is an absolute
// instant, so the hour boundary only exists after timezone conversion),
// and caches the final formatted result set.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/your-org/lpr/internal/cache"
	"github.com/your-org/lpr/internal/models"
	"github.com/your-org/lpr/internal/observability"
	"github.com/your-org/lpr/internal/storage"
	"github.com/your-org/lpr/pkg/dto"
)

// MaxLimit is the hard cap on result counts regardless of what the
// caller asked for.
const MaxLimit = 5000

type Querier interface {
	SearchPlates(ctx context.Context, q storage.PlateQuery) ([]models.Plate, error)
}

type Engine struct {
	store     Querier
	cache     *cache.Partitions
	formatter *Formatter
}

func NewEngine(store Querier, parts *cache.Partitions, formatter *Formatter) *Engine {
	return &Engine{store: store, cache: parts, formatter: formatter}
}

// Search runs the composed query. It never fails: remote errors are
// logged and surfaced as an empty result set.
func (e *Engine) Search(ctx context.Context, p Params) []dto.PlateResult {
	observability.SearchesTotal.Inc()

	if p.Limit <= 0 || p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	key := cacheKey(p)
	if v, ok := e.cache.Search(key); ok {
		observability.SearchCacheHits.Inc()
		return v.([]dto.PlateResult)
	}

	q := storage.PlateQuery{
		Term:       p.Term,
		Province:   p.Province,
		CameraID:   p.CameraID,
		CameraName: p.CameraName,
		Limit:      p.Limit,
	}
	q.From, q.To = p.Dates.Bounds(e.formatter.Location())

	rows, err := e.store.SearchPlates(ctx, q)
	if err != nil {
		slog.Error("plate search failed", "error", err)
		return []dto.PlateResult{}
	}

	results := make([]dto.PlateResult, 0, len(rows))
	for _, r := range rows {
		if p.Hours != nil && !p.Hours.Contains(e.formatter.LocalHour(r.Timestamp)) {
			continue
		}
		results = append(results, dto.PlateResult{
			ID:         r.ID,
			Plate:      r.Plate,
			Province:   r.Province,
			CameraID:   r.CameraID,
			CameraName: r.CameraName,
			Timestamp:  e.formatter.Format(r.Timestamp),
			Verified:   r.Verified,
		})
	}

	e.cache.SetSearch(key, results)
	return results
}

// cacheKey is the full ordered parameter tuple, including the resolved
// date bounds and the clamped limit.
func cacheKey(p Params) string {
	from, to := "", ""
	switch p.Dates.Kind {
	case RangeDay:
		from = p.Dates.StartDay.Format(dayFormat)
		to = p.Dates.EndDay.Format(dayFormat)
	case RangeMonth:
		from = fmt.Sprintf("%d-%02d", p.Dates.StartYear, p.Dates.StartMonth)
		to = fmt.Sprintf("%d-%02d", p.Dates.EndYear, p.Dates.EndMonth)
	case RangeYear:
		from = fmt.Sprintf("%d", p.Dates.StartYear)
		to = fmt.Sprintf("%d", p.Dates.EndYear)
	}
	hours := ""
	if p.Hours != nil {
		hours = fmt.Sprintf("%d-%d", p.Hours.Start, p.Hours.End)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%d|%s|%s|%s|%d",
		p.Term, p.Province, p.CameraID, p.CameraName,
		p.Dates.Kind, from, to, hours, p.Limit)
}
