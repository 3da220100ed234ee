package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterBuddhistEra(t *testing.T) {
	f, err := NewFormatter("Asia/Bangkok", true)
	require.NoError(t, err)

	// 2023-06-15 07:30:45 UTC is 14:30:45 in Bangkok (UTC+7);
	// year 2023 displays as 2566.
	ts := time.Date(2023, 6, 15, 7, 30, 45, 0, time.UTC)
	assert.Equal(t, "15/06/2566 14:30:45", f.Format(ts))
}

func TestFormatterGregorian(t *testing.T) {
	f, err := NewFormatter("Asia/Bangkok", false)
	require.NoError(t, err)

	ts := time.Date(2023, 6, 15, 7, 30, 45, 0, time.UTC)
	assert.Equal(t, "15/06/2023 14:30:45", f.Format(ts))
}

func TestFormatterDateRollsOverAtTimezoneBoundary(t *testing.T) {
	f, err := NewFormatter("Asia/Bangkok", false)
	require.NoError(t, err)

	// 20:00 UTC is already the next day in Bangkok.
	ts := time.Date(2023, 6, 15, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "16/06/2023 03:00:00", f.Format(ts))
	assert.Equal(t, 3, f.LocalHour(ts))
}

func TestFormatterRejectsUnknownTimezone(t *testing.T) {
	_, err := NewFormatter("Not/AZone", true)
	assert.Error(t, err)
}
