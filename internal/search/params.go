package search

import (
	"fmt"
	"strconv"
	"time"
)

// dayFormat is the wire format for day-granularity boundaries.
const dayFormat = "02/01/2006"

type RangeKind int

const (
	RangeNone RangeKind = iota
	RangeDay
	RangeMonth
	RangeYear
)

// DateRange is the resolved date dimension of a search. Exactly one
// granularity applies; the choice is made once, at the boundary, in
// strict precedence order (day, then month, then year).
type DateRange struct {
	Kind RangeKind

	// Day granularity, dates in the business timezone.
	StartDay time.Time
	EndDay   time.Time

	// Month/year granularity.
	StartYear  int
	EndYear    int
	StartMonth time.Month
	EndMonth   time.Month
}

// Bounds returns the [from, to) instant window for the range, or nils
// when no date dimension applies. The upper bound is exclusive: one day,
// one month, or one year past the inclusive end.
func (r DateRange) Bounds(loc *time.Location) (from, to *time.Time) {
	switch r.Kind {
	case RangeDay:
		f := time.Date(r.StartDay.Year(), r.StartDay.Month(), r.StartDay.Day(), 0, 0, 0, 0, loc)
		t := time.Date(r.EndDay.Year(), r.EndDay.Month(), r.EndDay.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		return &f, &t
	case RangeMonth:
		f := time.Date(r.StartYear, r.StartMonth, 1, 0, 0, 0, 0, loc)
		// time.Date normalizes month 13 into January of the next year.
		t := time.Date(r.EndYear, r.EndMonth+1, 1, 0, 0, 0, 0, loc)
		return &f, &t
	case RangeYear:
		f := time.Date(r.StartYear, time.January, 1, 0, 0, 0, 0, loc)
		t := time.Date(r.EndYear+1, time.January, 1, 0, 0, 0, 0, loc)
		return &f, &t
	default:
		return nil, nil
	}
}

// ParseDateRange resolves the raw date filter fields into a single
// DateRange. Precedence: a complete day range wins and the rest is
// ignored; then a complete month+year range; then a year range. A
// dimension with only one side supplied is a validation error unless a
// higher-precedence dimension already matched.
func ParseDateRange(startDate, endDate, startMonth, endMonth, startYear, endYear string, loc *time.Location) (DateRange, error) {
	if startDate != "" || endDate != "" {
		if startDate == "" || endDate == "" {
			return DateRange{}, fmt.Errorf("start_date and end_date must be supplied together")
		}
		sd, err := time.ParseInLocation(dayFormat, startDate, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid start_date %q: expected DD/MM/YYYY", startDate)
		}
		ed, err := time.ParseInLocation(dayFormat, endDate, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid end_date %q: expected DD/MM/YYYY", endDate)
		}
		return DateRange{Kind: RangeDay, StartDay: sd, EndDay: ed}, nil
	}

	if startMonth != "" || endMonth != "" {
		if startMonth == "" || endMonth == "" {
			return DateRange{}, fmt.Errorf("start_month and end_month must be supplied together")
		}
		if startYear == "" || endYear == "" {
			return DateRange{}, fmt.Errorf("month ranges require start_year and end_year")
		}
		sm, err := parseMonth(startMonth)
		if err != nil {
			return DateRange{}, err
		}
		em, err := parseMonth(endMonth)
		if err != nil {
			return DateRange{}, err
		}
		sy, ey, err := parseYears(startYear, endYear)
		if err != nil {
			return DateRange{}, err
		}
		return DateRange{Kind: RangeMonth, StartYear: sy, EndYear: ey, StartMonth: sm, EndMonth: em}, nil
	}

	if startYear != "" || endYear != "" {
		if startYear == "" || endYear == "" {
			return DateRange{}, fmt.Errorf("start_year and end_year must be supplied together")
		}
		sy, ey, err := parseYears(startYear, endYear)
		if err != nil {
			return DateRange{}, err
		}
		return DateRange{Kind: RangeYear, StartYear: sy, EndYear: ey}, nil
	}

	return DateRange{Kind: RangeNone}, nil
}

func parseMonth(s string) (time.Month, error) {
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0, fmt.Errorf("invalid month %q: expected 1-12", s)
	}
	return time.Month(m), nil
}

func parseYears(startYear, endYear string) (int, int, error) {
	sy, err := strconv.Atoi(startYear)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start_year %q", startYear)
	}
	ey, err := strconv.Atoi(endYear)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end_year %q", endYear)
	}
	return sy, ey, nil
}

// HourWindow filters by the business-local hour of day, inclusive on
// both ends. Start > End denotes a window crossing midnight.
type HourWindow struct {
	Start int
	End   int
}

// Contains reports whether local hour h falls inside the window,
// applying wraparound semantics when Start > End.
func (w HourWindow) Contains(h int) bool {
	if w.Start <= w.End {
		return h >= w.Start && h <= w.End
	}
	return h >= w.Start || h <= w.End
}

// ParseHourWindow returns nil when neither bound is supplied; one bound
// without the other is a validation error.
func ParseHourWindow(startHour, endHour string) (*HourWindow, error) {
	if startHour == "" && endHour == "" {
		return nil, nil
	}
	if startHour == "" || endHour == "" {
		return nil, fmt.Errorf("start_hour and end_hour must be supplied together")
	}
	sh, err := strconv.Atoi(startHour)
	if err != nil || sh < 0 || sh > 23 {
		return nil, fmt.Errorf("invalid start_hour %q: expected 0-23", startHour)
	}
	eh, err := strconv.Atoi(endHour)
	if err != nil || eh < 0 || eh > 23 {
		return nil, fmt.Errorf("invalid end_hour %q: expected 0-23", endHour)
	}
	return &HourWindow{Start: sh, End: eh}, nil
}

// Params is a fully validated search request.
type Params struct {
	Term       string
	Province   string
	CameraID   string
	CameraName string
	Dates      DateRange
	Hours      *HourWindow
	Limit      int
}
