package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/barcadehq/arcade-tracker/internal/domain"
	"github.com/barcadehq/arcade-tracker/internal/repository"
	"github.com/barcadehq/arcade-tracker/internal/timeseries"
)

// RevenueService records collections and builds revenue series.
type RevenueService struct {
	repos *repository.Repos
}

// Log records one collection for a machine. Amount is a token count when
// isToken is set.
func (s *RevenueService) Log(machineID, userID int64, amount float64, isToken bool, period string) (*domain.RevenueEvent, error) {
	if amount < 0 {
		return nil, fmt.Errorf("amount must be non-negative, got %v", amount)
	}
	if _, err := s.repos.GetMachine(machineID); err != nil {
		return nil, err
	}
	ev := &domain.RevenueEvent{
		MachineID: machineID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Amount:    amount,
		IsToken:   isToken,
		Period:    period,
	}
	if err := s.repos.InsertRevenueEvent(ev); err != nil {
		return nil, fmt.Errorf("insert revenue event: %w", err)
	}
	return ev, nil
}

// Record stores a collection with an explicit timestamp (automated coin-door
// reports).
func (s *RevenueService) Record(machineID int64, at time.Time, amount float64, isToken bool) error {
	if amount < 0 {
		return fmt.Errorf("amount must be non-negative, got %v", amount)
	}
	if _, err := s.repos.GetMachine(machineID); err != nil {
		return err
	}
	ev := &domain.RevenueEvent{
		MachineID: machineID,
		Timestamp: at.UTC(),
		Amount:    amount,
		IsToken:   isToken,
	}
	return s.repos.InsertRevenueEvent(ev)
}

// RawSeries returns every in-window collection converted to cash.
func (s *RevenueService) RawSeries(machineID int64, w timeseries.Window) ([]timeseries.RevenuePoint, error) {
	rate, err := s.repos.ConversionRate(machineID)
	if err != nil {
		return nil, err
	}
	events, err := s.repos.RevenueEventsAsc(machineID, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	return timeseries.BuildRawSeries(events, w, rate), nil
}

// BucketedSeries returns the distributed per-bucket cash series. The
// previous collection outside the window, when one exists, anchors the first
// accrual interval.
func (s *RevenueService) BucketedSeries(machineID int64, w timeseries.Window, g timeseries.Granularity) ([]timeseries.BucketAmount, error) {
	rate, err := s.repos.ConversionRate(machineID)
	if err != nil {
		return nil, err
	}
	events, err := s.repos.RevenueEventsAsc(machineID, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	var prev time.Time
	if t, ok, err := s.repos.LastRevenueEventBefore(machineID, w.Start); err != nil {
		return nil, err
	} else if ok {
		prev = t
	}
	return timeseries.BuildBucketedSeries(events, w, g, rate, prev), nil
}

// HistoryEntry is one row of a machine's merged status/revenue timeline.
type HistoryEntry struct {
	T       time.Time `json:"t"`
	Kind    string    `json:"kind"` // "status" or "revenue"
	UserID  int64     `json:"user_id,omitempty"`
	Action  string    `json:"action,omitempty"`
	Status  string    `json:"status,omitempty"`
	Comment string    `json:"comment,omitempty"`
	Amount  float64   `json:"amount,omitempty"`
	IsToken bool      `json:"is_token,omitempty"`
	Period  string    `json:"period,omitempty"`
}

// History returns the most recent status and revenue entries for a machine,
// merged and sorted newest first.
func (s *RevenueService) History(machineID int64, limit int) ([]HistoryEntry, error) {
	if _, err := s.repos.GetMachine(machineID); err != nil {
		return nil, err
	}
	status, err := s.repos.StatusEventsDesc(machineID, limit)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repos.RevenueEventsDesc(machineID, limit)
	if err != nil {
		return nil, err
	}
	merged := mergeHistory(status, revenue)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func mergeHistory(status []domain.StatusEvent, revenue []domain.RevenueEvent) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(status)+len(revenue))
	for _, ev := range status {
		out = append(out, HistoryEntry{
			T:       ev.Timestamp,
			Kind:    "status",
			UserID:  ev.UserID,
			Action:  ev.Action,
			Status:  string(ev.Status),
			Comment: ev.Comment,
		})
	}
	for _, ev := range revenue {
		out = append(out, HistoryEntry{
			T:       ev.Timestamp,
			Kind:    "revenue",
			UserID:  ev.UserID,
			Amount:  ev.Amount,
			IsToken: ev.IsToken,
			Period:  ev.Period,
		})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].T.After(out[b].T) })
	return out
}
