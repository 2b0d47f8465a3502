package http

import (
	"fmt"
	"time"

	"github.com/barcadehq/arcade-tracker/internal/timeseries"
)

// defaultSpan is the query window used when the caller omits start/end:
// the last 30 days ending now.
const defaultSpan = 30 * 24 * time.Hour

// seriesQuery carries the common chart query parameters.
type seriesQuery struct {
	Start       string `query:"start"`
	End         string `query:"end"`
	Granularity string `query:"granularity" validate:"omitempty,oneof=daily weekly monthly"`
	Mode        string `query:"mode" validate:"omitempty,oneof=raw bucketed"`
}

// parseWindow builds the query window from optional ISO-8601 bounds.
// Malformed timestamps are rejected here; an inverted window is not an error
// and produces empty series downstream.
func parseWindow(startStr, endStr string, now time.Time) (timeseries.Window, error) {
	end := now.UTC()
	if endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return timeseries.Window{}, fmt.Errorf("malformed end %q", endStr)
		}
		end = t
	}
	start := end.Add(-defaultSpan)
	if startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return timeseries.Window{}, fmt.Errorf("malformed start %q", startStr)
		}
		start = t
	}
	return timeseries.NewWindow(start, end), nil
}
