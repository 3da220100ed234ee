package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bangkok(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)
	return loc
}

func TestParseDateRangePrecedence(t *testing.T) {
	loc := bangkok(t)

	tests := []struct {
		name                 string
		startDate, endDate   string
		startMonth, endMonth string
		startYear, endYear   string
		wantKind             RangeKind
	}{
		{
			name:     "no date fields",
			wantKind: RangeNone,
		},
		{
			name:      "day range only",
			startDate: "01/01/2023", endDate: "31/01/2023",
			wantKind: RangeDay,
		},
		{
			name:      "day range wins over month and year",
			startDate: "01/01/2023", endDate: "31/01/2023",
			startMonth: "3", endMonth: "6",
			startYear: "2020", endYear: "2021",
			wantKind: RangeDay,
		},
		{
			name:       "month range wins over year",
			startMonth: "3", endMonth: "6",
			startYear: "2023", endYear: "2023",
			wantKind: RangeMonth,
		},
		{
			name:      "year range alone",
			startYear: "2022", endYear: "2023",
			wantKind: RangeYear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseDateRange(tt.startDate, tt.endDate, tt.startMonth, tt.endMonth, tt.startYear, tt.endYear, loc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, r.Kind)
		})
	}
}

func TestParseDateRangeIgnoresLowerDimensionsWhenDayMatches(t *testing.T) {
	loc := bangkok(t)

	// The month fields are incomplete, but the day range takes
	// precedence so they must not be validated at all.
	r, err := ParseDateRange("05/03/2024", "06/03/2024", "7", "", "", "", loc)
	require.NoError(t, err)
	assert.Equal(t, RangeDay, r.Kind)
}

func TestParseDateRangeValidation(t *testing.T) {
	loc := bangkok(t)

	tests := []struct {
		name                 string
		startDate, endDate   string
		startMonth, endMonth string
		startYear, endYear   string
	}{
		{name: "unpaired start_date", startDate: "01/01/2023"},
		{name: "unpaired end_date", endDate: "01/01/2023"},
		{name: "bad day format", startDate: "2023-01-01", endDate: "31/01/2023"},
		{name: "unpaired month", startMonth: "3", startYear: "2023", endYear: "2023"},
		{name: "month without years", startMonth: "3", endMonth: "6"},
		{name: "month out of range", startMonth: "0", endMonth: "6", startYear: "2023", endYear: "2023"},
		{name: "month thirteen", startMonth: "1", endMonth: "13", startYear: "2023", endYear: "2023"},
		{name: "unpaired year", startYear: "2023"},
		{name: "non-numeric year", startYear: "twenty", endYear: "2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDateRange(tt.startDate, tt.endDate, tt.startMonth, tt.endMonth, tt.startYear, tt.endYear, loc)
			assert.Error(t, err)
		})
	}
}

func TestDayBoundsAreExclusiveAtUpperEnd(t *testing.T) {
	loc := bangkok(t)

	r, err := ParseDateRange("01/01/2023", "01/01/2023", "", "", "", "", loc)
	require.NoError(t, err)

	from, to := r.Bounds(loc)
	require.NotNil(t, from)
	require.NotNil(t, to)

	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, loc), *from)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, loc), *to)

	// 23:59:59 on the end day is inside the window, midnight after is not.
	lastSecond := time.Date(2023, 1, 1, 23, 59, 59, 0, loc)
	assert.True(t, lastSecond.Before(*to))
	assert.False(t, to.Before(*to))
}

func TestMonthBoundsNormalizeDecember(t *testing.T) {
	loc := bangkok(t)

	r := DateRange{Kind: RangeMonth, StartYear: 2023, EndYear: 2023, StartMonth: time.December, EndMonth: time.December}
	from, to := r.Bounds(loc)
	require.NotNil(t, from)
	require.NotNil(t, to)

	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, loc), *from)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), *to)
}

func TestYearBounds(t *testing.T) {
	loc := bangkok(t)

	r := DateRange{Kind: RangeYear, StartYear: 2022, EndYear: 2023}
	from, to := r.Bounds(loc)
	require.NotNil(t, from)
	require.NotNil(t, to)

	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, loc), *from)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), *to)
}

func TestNoRangeHasNilBounds(t *testing.T) {
	from, to := DateRange{Kind: RangeNone}.Bounds(bangkok(t))
	assert.Nil(t, from)
	assert.Nil(t, to)
}

func TestHourWindowContains(t *testing.T) {
	tests := []struct {
		name   string
		window HourWindow
		hour   int
		want   bool
	}{
		{"inside plain window", HourWindow{Start: 8, End: 17}, 12, true},
		{"start inclusive", HourWindow{Start: 8, End: 17}, 8, true},
		{"end inclusive", HourWindow{Start: 8, End: 17}, 17, true},
		{"before plain window", HourWindow{Start: 8, End: 17}, 7, false},
		{"after plain window", HourWindow{Start: 8, End: 17}, 18, false},
		{"wraparound late evening", HourWindow{Start: 22, End: 4}, 23, true},
		{"wraparound early morning", HourWindow{Start: 22, End: 4}, 1, true},
		{"wraparound boundary start", HourWindow{Start: 22, End: 4}, 22, true},
		{"wraparound boundary end", HourWindow{Start: 22, End: 4}, 4, true},
		{"wraparound midday excluded", HourWindow{Start: 22, End: 4}, 12, false},
		{"single hour", HourWindow{Start: 9, End: 9}, 9, true},
		{"single hour miss", HourWindow{Start: 9, End: 9}, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.window.Contains(tt.hour))
		})
	}
}

func TestParseHourWindow(t *testing.T) {
	w, err := ParseHourWindow("", "")
	require.NoError(t, err)
	assert.Nil(t, w)

	w, err = ParseHourWindow("22", "4")
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, 22, w.Start)
	assert.Equal(t, 4, w.End)

	_, err = ParseHourWindow("8", "")
	assert.Error(t, err)

	_, err = ParseHourWindow("", "17")
	assert.Error(t, err)

	_, err = ParseHourWindow("24", "4")
	assert.Error(t, err)

	_, err = ParseHourWindow("-1", "4")
	assert.Error(t, err)
}
