package service

import (
	"github.com/barcadehq/arcade-tracker/internal/repository"
	"github.com/barcadehq/arcade-tracker/internal/timeseries"
)

// UptimeService reconstructs uptime/downtime series from status histories.
type UptimeService struct {
	repos *repository.Repos
}

// Series computes the per-bucket uptime/downtime series for one machine.
// Returns repository.ErrNotFound for unknown machines; an empty window
// yields an empty series, not an error.
func (s *UptimeService) Series(machineID int64, w timeseries.Window, g timeseries.Granularity) (timeseries.UptimeSeries, error) {
	if _, err := s.repos.GetMachine(machineID); err != nil {
		return timeseries.UptimeSeries{}, err
	}
	events, err := s.repos.StatusEventsAsc(machineID)
	if err != nil {
		return timeseries.UptimeSeries{}, err
	}
	return timeseries.BuildUptimeSeries(events, w, g), nil
}
