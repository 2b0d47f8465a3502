package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindowDefaults(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	w, err := parseWindow("", "", now)

	require.NoError(t, err)
	assert.Equal(t, now, w.End)
	assert.Equal(t, now.Add(-30*24*time.Hour), w.Start)
}

func TestParseWindowExplicitBounds(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	w, err := parseWindow("2024-01-01T00:00:00Z", "2024-02-01T00:00:00Z", now)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), w.End)
}

func TestParseWindowStartOnlyKeepsDefaultEnd(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	w, err := parseWindow("2024-05-01T00:00:00Z", "", now)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, now, w.End)
}

func TestParseWindowMalformed(t *testing.T) {
	now := time.Now()

	_, err := parseWindow("yesterday", "", now)
	assert.Error(t, err)

	_, err = parseWindow("", "2024-13-01T00:00:00Z", now)
	assert.Error(t, err)
}

func TestParseWindowInvertedIsNotAnError(t *testing.T) {
	// start >= end is handled downstream as an empty series, not rejected
	w, err := parseWindow("2024-02-01T00:00:00Z", "2024-01-01T00:00:00Z", time.Now())

	require.NoError(t, err)
	assert.True(t, w.Empty())
}
