// Package timeseries reconstructs continuous-time aggregates from sparse
// event histories: per-bucket uptime/downtime from status transitions and
// per-bucket cash revenue from collection events. Everything here is pure
// computation over in-memory slices; callers fetch inputs from storage.
package timeseries

import (
	"fmt"
	"time"
)

// Granularity selects the bucket width for aggregated series.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ParseGranularity maps a query-string value to a Granularity. The empty
// string defaults to Daily.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "":
		return Daily, nil
	case string(Daily), string(Weekly), string(Monthly):
		return Granularity(s), nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// Width is the nominal bucket duration. Monthly is a fixed 30-day
// approximation, not calendar months; downstream consumers rely on the
// uniform step, so keep it that way.
func (g Granularity) Width() time.Duration {
	switch g {
	case Weekly:
		return 7 * 24 * time.Hour
	case Monthly:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Window is the half-open query range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow normalizes both bounds to UTC.
func NewWindow(start, end time.Time) Window {
	return Window{Start: start.UTC(), End: end.UTC()}
}

// Empty reports whether the window covers no time at all, including the
// inverted case.
func (w Window) Empty() bool {
	return !w.Start.Before(w.End)
}

// Bucketer floors instants to bucket starts. Monthly buckets step in fixed
// 30-day increments anchored at the day-floor of the window start, so a
// Bucketer is only valid for the window it was built for.
type Bucketer struct {
	g      Granularity
	anchor time.Time
}

func NewBucketer(g Granularity, windowStart time.Time) Bucketer {
	return Bucketer{g: g, anchor: dayFloor(windowStart)}
}

// Floor maps an instant to the start of its containing bucket.
func (b Bucketer) Floor(t time.Time) time.Time {
	t = t.UTC()
	switch b.g {
	case Weekly:
		d := dayFloor(t)
		// back to the most recent Monday (ISO week start)
		return d.AddDate(0, 0, -((int(d.Weekday()) + 6) % 7))
	case Monthly:
		steps := t.Sub(b.anchor) / b.g.Width()
		floored := b.anchor.Add(steps * b.g.Width())
		if t.Before(floored) {
			floored = floored.Add(-b.g.Width())
		}
		return floored
	default:
		return dayFloor(t)
	}
}

// Buckets enumerates the bucket starts covering [Floor(w.Start), w.End).
// An empty window yields no buckets.
func (b Bucketer) Buckets(w Window) []time.Time {
	if w.Empty() {
		return nil
	}
	var starts []time.Time
	for t := b.Floor(w.Start); t.Before(w.End); t = t.Add(b.g.Width()) {
		starts = append(starts, t)
	}
	return starts
}

func dayFloor(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// overlap returns the length of the intersection of [aFrom, aTo) and
// [bFrom, bTo), zero when they do not meet.
func overlap(aFrom, aTo, bFrom, bTo time.Time) time.Duration {
	from := aFrom
	if bFrom.After(from) {
		from = bFrom
	}
	to := aTo
	if bTo.Before(to) {
		to = bTo
	}
	if !from.Before(to) {
		return 0
	}
	return to.Sub(from)
}
