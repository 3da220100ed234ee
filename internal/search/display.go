package search

import (
	"fmt"
	"time"
)

// buddhistEraOffset converts a Gregorian year to the Thai Buddhist era.
const buddhistEraOffset = 543

// Formatter renders detection instants in the business timezone using
// the DD/MM/YYYY HH:MM:SS convention, optionally with the Buddhist-era
// year.
type Formatter struct {
	loc         *time.Location
	buddhistEra bool
}

func NewFormatter(timezone string, buddhistEra bool) (*Formatter, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load display timezone %q: %w", timezone, err)
	}
	return &Formatter{loc: loc, buddhistEra: buddhistEra}, nil
}

func (f *Formatter) Location() *time.Location {
	return f.loc
}

// LocalHour returns the hour-of-day of t in the business timezone.
func (f *Formatter) LocalHour(t time.Time) int {
	return t.In(f.loc).Hour()
}

func (f *Formatter) Format(t time.Time) string {
	lt := t.In(f.loc)
	year := lt.Year()
	if f.buddhistEra {
		year += buddhistEraOffset
	}
	return fmt.Sprintf("%02d/%02d/%04d %02d:%02d:%02d",
		lt.Day(), int(lt.Month()), year, lt.Hour(), lt.Minute(), lt.Second())
}
