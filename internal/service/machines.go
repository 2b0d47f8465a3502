package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/barcadehq/arcade-tracker/internal/cloud"
	"github.com/barcadehq/arcade-tracker/internal/domain"
	"github.com/barcadehq/arcade-tracker/internal/repository"
)

// MachineService handles machine lookups and staff fault/fix reports.
type MachineService struct {
	repos  *repository.Repos
	alerts *cloud.SNSClient
}

func (s *MachineService) Get(id int64) (*domain.Machine, error) {
	return s.repos.GetMachine(id)
}

func (s *MachineService) List(locationID int64) ([]domain.Machine, error) {
	if locationID == 0 {
		return s.repos.ListAllMachines()
	}
	return s.repos.ListMachines(locationID)
}

// ReportFault records a degraded status for a machine, logs the transition
// and notifies operators. The reported status must be needs_maintenance or
// out_of_order; a fix goes through ReportFix.
func (s *MachineService) ReportFault(ctx context.Context, machineID, userID int64, status domain.MachineStatus, comment string) (*domain.Machine, error) {
	if !status.Valid() || status == domain.StatusWorking {
		return nil, fmt.Errorf("invalid fault status %q", status)
	}
	return s.transition(ctx, machineID, userID, "fault", status, comment)
}

// ReportFix records a machine going back to working.
func (s *MachineService) ReportFix(ctx context.Context, machineID, userID int64, comment string) (*domain.Machine, error) {
	return s.transition(ctx, machineID, userID, "fix", domain.StatusWorking, comment)
}

// RecordStatus records a transition from an automated source (networked
// cabinet self-reports).
func (s *MachineService) RecordStatus(ctx context.Context, machineID int64, at time.Time, status domain.MachineStatus, comment string) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	m, err := s.repos.GetMachine(machineID)
	if err != nil {
		return err
	}
	ev := &domain.StatusEvent{
		MachineID: machineID,
		Timestamp: at.UTC(),
		Action:    "status_change",
		Status:    status,
		Comment:   comment,
	}
	if err := s.repos.InsertStatusEvent(ev); err != nil {
		return err
	}
	if err := s.repos.UpdateMachineStatus(machineID, status); err != nil {
		return err
	}
	s.notify(ctx, m.Name, status, comment, ev.Timestamp)
	return nil
}

func (s *MachineService) transition(ctx context.Context, machineID, userID int64, action string, status domain.MachineStatus, comment string) (*domain.Machine, error) {
	m, err := s.repos.GetMachine(machineID)
	if err != nil {
		return nil, err
	}
	ev := &domain.StatusEvent{
		MachineID: machineID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Action:    action,
		Status:    status,
		Comment:   comment,
	}
	if err := s.repos.InsertStatusEvent(ev); err != nil {
		return nil, fmt.Errorf("insert status event: %w", err)
	}
	if err := s.repos.UpdateMachineStatus(machineID, status); err != nil {
		return nil, fmt.Errorf("update machine status: %w", err)
	}
	m.Status = status
	s.notify(ctx, m.Name, status, comment, ev.Timestamp)
	return m, nil
}

// notify publishes an alert for the transition; failures are logged, never
// surfaced to the reporter.
func (s *MachineService) notify(ctx context.Context, machineName string, status domain.MachineStatus, comment string, at time.Time) {
	if s.alerts == nil {
		return
	}
	var err error
	switch status {
	case domain.StatusWorking:
		err = s.alerts.SendFixAlert(ctx, machineName, at)
	default:
		err = s.alerts.SendFaultAlert(ctx, machineName, string(status), comment, at)
	}
	if err != nil {
		log.Error().Err(err).Str("machine", machineName).Msg("alert publish failed")
	}
}
