package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barcadehq/arcade-tracker/internal/domain"
)

func statusEvent(at string, s domain.MachineStatus) domain.StatusEvent {
	return domain.StatusEvent{Timestamp: ts(at), Status: s}
}

func TestUptimeNoEventsDefaultsToWorking(t *testing.T) {
	w := NewWindow(ts("2024-01-01T00:00:00Z"), ts("2024-01-04T00:00:00Z"))

	got := BuildUptimeSeries(nil, w, Daily)

	require.Len(t, got.Series, 3)
	for _, p := range got.Series {
		assert.Equal(t, 24.0, p.UptimeHours)
		assert.Equal(t, 0.0, p.DowntimeHours)
	}
	assert.Equal(t, 72.0, got.Totals.UptimeHours)
	assert.Equal(t, 0.0, got.Totals.DowntimeHours)
}

func TestUptimeDowntimeSplitAcrossDays(t *testing.T) {
	w := NewWindow(ts("2024-01-01T00:00:00Z"), ts("2024-01-04T00:00:00Z"))
	events := []domain.StatusEvent{
		statusEvent("2024-01-01T12:00:00Z", domain.StatusOutOfOrder),
		statusEvent("2024-01-03T06:00:00Z", domain.StatusWorking),
	}

	got := BuildUptimeSeries(events, w, Daily)

	require.Len(t, got.Series, 3)
	assert.Equal(t, 12.0, got.Series[0].DowntimeHours)
	assert.Equal(t, 12.0, got.Series[0].UptimeHours)
	assert.Equal(t, 24.0, got.Series[1].DowntimeHours)
	assert.Equal(t, 0.0, got.Series[1].UptimeHours)
	assert.Equal(t, 6.0, got.Series[2].DowntimeHours)
	assert.Equal(t, 18.0, got.Series[2].UptimeHours)
	assert.Equal(t, 42.0, got.Totals.DowntimeHours)
	assert.Equal(t, 30.0, got.Totals.UptimeHours)
}

func TestUptimeNeedsMaintenanceCountsAsUp(t *testing.T) {
	w := NewWindow(ts("2024-01-01T00:00:00Z"), ts("2024-01-02T00:00:00Z"))
	events := []domain.StatusEvent{
		statusEvent("2024-01-01T08:00:00Z", domain.StatusNeedsMaintenance),
	}

	got := BuildUptimeSeries(events, w, Daily)

	require.Len(t, got.Series, 1)
	assert.Equal(t, 24.0, got.Series[0].UptimeHours)
	assert.Equal(t, 0.0, got.Series[0].DowntimeHours)
}

func TestUptimeStatusCarriedFromBeforeWindow(t *testing.T) {
	w := NewWindow(ts("2024-01-10T00:00:00Z"), ts("2024-01-12T00:00:00Z"))
	events := []domain.StatusEvent{
		statusEvent("2024-01-05T00:00:00Z", domain.StatusOutOfOrder),
	}

	got := BuildUptimeSeries(events, w, Daily)

	require.Len(t, got.Series, 2)
	assert.Equal(t, 24.0, got.Series[0].DowntimeHours)
	assert.Equal(t, 24.0, got.Series[1].DowntimeHours)
	assert.Equal(t, 48.0, got.Totals.DowntimeHours)
	assert.Equal(t, 0.0, got.Totals.UptimeHours)
}

func TestUptimeWindowBoundariesHalfOpen(t *testing.T) {
	w := NewWindow(ts("2024-01-01T00:00:00Z"), ts("2024-01-02T00:00:00Z"))

	// event exactly at the window start is included
	got := BuildUptimeSeries([]domain.StatusEvent{
		statusEvent("2024-01-01T00:00:00Z", domain.StatusOutOfOrder),
	}, w, Daily)
	assert.Equal(t, 24.0, got.Totals.DowntimeHours)

	// event exactly at the window end is excluded
	got = BuildUptimeSeries([]domain.StatusEvent{
		statusEvent("2024-01-02T00:00:00Z", domain.StatusOutOfOrder),
	}, w, Daily)
	assert.Equal(t, 0.0, got.Totals.DowntimeHours)
	assert.Equal(t, 24.0, got.Totals.UptimeHours)
}

func TestUptimePlusDowntimeEqualsWindow(t *testing.T) {
	// partial-day window boundaries and transitions across bucket edges
	w := NewWindow(ts("2024-02-01T07:15:00Z"), ts("2024-02-09T21:45:00Z"))
	events := []domain.StatusEvent{
		statusEvent("2024-01-30T10:00:00Z", domain.StatusOutOfOrder),
		statusEvent("2024-02-02T03:30:00Z", domain.StatusWorking),
		statusEvent("2024-02-04T16:15:00Z", domain.StatusNeedsMaintenance),
		statusEvent("2024-02-05T00:45:00Z", domain.StatusOutOfOrder),
		statusEvent("2024-02-08T23:30:00Z", domain.StatusWorking),
	}

	for _, g := range []Granularity{Daily, Weekly, Monthly} {
		got := BuildUptimeSeries(events, w, g)

		var up, down float64
		for _, p := range got.Series {
			up += p.UptimeHours
			down += p.DowntimeHours
		}
		windowHours := w.End.Sub(w.Start).Hours()
		assert.InDelta(t, windowHours, up+down, 0.01, "granularity %s", g)
		assert.InDelta(t, got.Totals.UptimeHours, up, 0.01)
		assert.InDelta(t, got.Totals.DowntimeHours, down, 0.01)
	}
}

func TestUptimeUnsortedInput(t *testing.T) {
	w := NewWindow(ts("2024-01-01T00:00:00Z"), ts("2024-01-04T00:00:00Z"))
	sorted := []domain.StatusEvent{
		statusEvent("2024-01-01T12:00:00Z", domain.StatusOutOfOrder),
		statusEvent("2024-01-03T06:00:00Z", domain.StatusWorking),
	}
	shuffled := []domain.StatusEvent{sorted[1], sorted[0]}

	assert.Equal(t, BuildUptimeSeries(sorted, w, Daily), BuildUptimeSeries(shuffled, w, Daily))
}

func TestUptimeEmptyWindow(t *testing.T) {
	events := []domain.StatusEvent{
		statusEvent("2024-01-01T12:00:00Z", domain.StatusOutOfOrder),
	}
	at := ts("2024-01-02T00:00:00Z")

	got := BuildUptimeSeries(events, NewWindow(at, at), Daily)
	assert.Empty(t, got.Series)
	assert.Equal(t, UptimeTotals{}, got.Totals)

	got = BuildUptimeSeries(events, NewWindow(at, at.Add(-time.Hour)), Daily)
	assert.Empty(t, got.Series)
	assert.Equal(t, UptimeTotals{}, got.Totals)
}

func TestUptimePartialDayWindow(t *testing.T) {
	// window covers 06:00-18:00 of a single day; machine down the whole time
	w := NewWindow(ts("2024-01-01T06:00:00Z"), ts("2024-01-01T18:00:00Z"))
	events := []domain.StatusEvent{
		statusEvent("2023-12-31T00:00:00Z", domain.StatusOutOfOrder),
	}

	got := BuildUptimeSeries(events, w, Daily)

	require.Len(t, got.Series, 1)
	assert.Equal(t, 12.0, got.Series[0].DowntimeHours)
	assert.Equal(t, 0.0, got.Series[0].UptimeHours)
}
