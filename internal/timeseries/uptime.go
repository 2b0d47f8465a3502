package timeseries

import (
	"math"
	"sort"
	"time"

	"github.com/barcadehq/arcade-tracker/internal/domain"
)

// UptimePoint is one bucket of the status series. Hours are rounded to two
// decimals for the charting frontend.
type UptimePoint struct {
	T             time.Time `json:"t"`
	UptimeHours   float64   `json:"uptime_hours"`
	DowntimeHours float64   `json:"downtime_hours"`
}

type UptimeTotals struct {
	UptimeHours   float64 `json:"uptime_hours"`
	DowntimeHours float64 `json:"downtime_hours"`
}

type UptimeSeries struct {
	Series []UptimePoint `json:"series"`
	Totals UptimeTotals  `json:"totals"`
}

// BuildUptimeSeries reconstructs per-bucket downtime and uptime for one
// machine over the window. Input is the machine's full status history; order
// is not trusted, the slice is copied and sorted before the walk.
//
// The machine's state at the window start is taken from the last event
// strictly before it, defaulting to working when there is none. Each segment
// between consecutive events is attributed to the status held before the
// later event; only out_of_order segments accrue downtime. Per bucket,
// uptime is the bucket's overlap with the window minus its downtime, clamped
// at zero. Durations accumulate as time.Duration so the split is exact;
// rounding happens once at output.
func BuildUptimeSeries(events []domain.StatusEvent, w Window, g Granularity) UptimeSeries {
	out := UptimeSeries{Series: []UptimePoint{}}
	if w.Empty() {
		return out
	}

	b := NewBucketer(g, w.Start)
	starts := b.Buckets(w)
	down := make([]time.Duration, len(starts))

	events = sortedStatusEvents(events)

	cur := domain.StatusWorking
	i := 0
	for i < len(events) && events[i].Timestamp.UTC().Before(w.Start) {
		cur = events[i].Status
		i++
	}

	addDowntime := func(from, to time.Time) {
		for j, bs := range starts {
			if d := overlap(from, to, bs, bs.Add(g.Width())); d > 0 {
				down[j] += d
			}
		}
	}

	segStart := w.Start
	for ; i < len(events); i++ {
		ts := events[i].Timestamp.UTC()
		if !ts.Before(w.End) {
			break
		}
		if cur == domain.StatusOutOfOrder {
			addDowntime(segStart, ts)
		}
		segStart = ts
		cur = events[i].Status
	}
	if cur == domain.StatusOutOfOrder {
		addDowntime(segStart, w.End)
	}

	var totalUp, totalDown time.Duration
	for j, bs := range starts {
		span := overlap(bs, bs.Add(g.Width()), w.Start, w.End)
		up := span - down[j]
		if up < 0 {
			up = 0
		}
		totalUp += up
		totalDown += down[j]
		out.Series = append(out.Series, UptimePoint{
			T:             bs,
			UptimeHours:   roundHours(up),
			DowntimeHours: roundHours(down[j]),
		})
	}
	out.Totals = UptimeTotals{
		UptimeHours:   roundHours(totalUp),
		DowntimeHours: roundHours(totalDown),
	}
	return out
}

func sortedStatusEvents(events []domain.StatusEvent) []domain.StatusEvent {
	sorted := append([]domain.StatusEvent(nil), events...)
	// stable keeps insertion order for equal timestamps
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Timestamp.Before(sorted[b].Timestamp)
	})
	return sorted
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
