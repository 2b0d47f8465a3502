package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		in      string
		want    Granularity
		wantErr bool
	}{
		{"", Daily, false},
		{"daily", Daily, false},
		{"weekly", Weekly, false},
		{"monthly", Monthly, false},
		{"hourly", "", true},
		{"Daily", "", true},
	}
	for _, tc := range tests {
		got, err := ParseGranularity(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestDailyFloor(t *testing.T) {
	b := NewBucketer(Daily, ts("2024-01-01T00:00:00Z"))

	assert.Equal(t, ts("2024-03-15T00:00:00Z"), b.Floor(ts("2024-03-15T23:59:59Z")))
	assert.Equal(t, ts("2024-03-15T00:00:00Z"), b.Floor(ts("2024-03-15T00:00:00Z")))
}

func TestWeeklyFloorToMonday(t *testing.T) {
	b := NewBucketer(Weekly, ts("2024-01-01T00:00:00Z"))

	// 2024-01-03 is a Wednesday, 2024-01-07 a Sunday, 2024-01-01 a Monday
	assert.Equal(t, ts("2024-01-01T00:00:00Z"), b.Floor(ts("2024-01-03T10:00:00Z")))
	assert.Equal(t, ts("2024-01-01T00:00:00Z"), b.Floor(ts("2024-01-07T23:00:00Z")))
	assert.Equal(t, ts("2024-01-01T00:00:00Z"), b.Floor(ts("2024-01-01T00:00:00Z")))
	assert.Equal(t, ts("2024-01-08T00:00:00Z"), b.Floor(ts("2024-01-08T00:00:00Z")))
}

func TestMonthlyFloorStepsFromAnchor(t *testing.T) {
	// anchor is the day-floor of the window start, steps are fixed 30 days
	b := NewBucketer(Monthly, ts("2024-01-15T09:30:00Z"))

	assert.Equal(t, ts("2024-01-15T00:00:00Z"), b.Floor(ts("2024-01-15T09:30:00Z")))
	assert.Equal(t, ts("2024-01-15T00:00:00Z"), b.Floor(ts("2024-02-13T23:59:59Z")))
	assert.Equal(t, ts("2024-02-14T00:00:00Z"), b.Floor(ts("2024-02-14T00:00:00Z")))
	assert.Equal(t, ts("2024-02-14T00:00:00Z"), b.Floor(ts("2024-03-01T00:00:00Z")))
}

func TestBucketsCoverWindow(t *testing.T) {
	w := NewWindow(ts("2024-01-01T06:00:00Z"), ts("2024-01-04T00:00:00Z"))
	b := NewBucketer(Daily, w.Start)

	got := b.Buckets(w)
	require.Len(t, got, 3)
	assert.Equal(t, ts("2024-01-01T00:00:00Z"), got[0])
	assert.Equal(t, ts("2024-01-02T00:00:00Z"), got[1])
	assert.Equal(t, ts("2024-01-03T00:00:00Z"), got[2])
}

func TestBucketsWeeklyStartMidWeek(t *testing.T) {
	// window starts Thursday; first bucket is the preceding Monday
	w := NewWindow(ts("2024-01-04T12:00:00Z"), ts("2024-01-16T00:00:00Z"))
	b := NewBucketer(Weekly, w.Start)

	got := b.Buckets(w)
	require.Len(t, got, 3)
	assert.Equal(t, ts("2024-01-01T00:00:00Z"), got[0])
	assert.Equal(t, ts("2024-01-08T00:00:00Z"), got[1])
	assert.Equal(t, ts("2024-01-15T00:00:00Z"), got[2])
}

func TestBucketsEmptyAndInvertedWindow(t *testing.T) {
	b := NewBucketer(Daily, ts("2024-01-02T00:00:00Z"))

	assert.Empty(t, b.Buckets(NewWindow(ts("2024-01-02T00:00:00Z"), ts("2024-01-02T00:00:00Z"))))
	assert.Empty(t, b.Buckets(NewWindow(ts("2024-01-02T00:00:00Z"), ts("2024-01-01T00:00:00Z"))))
}
