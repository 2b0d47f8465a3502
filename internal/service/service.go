package service

import (
	"github.com/jmoiron/sqlx"

	"github.com/barcadehq/arcade-tracker/internal/cloud"
	"github.com/barcadehq/arcade-tracker/internal/repository"
)

type Services struct {
	Repos    *repository.Repos
	Machines *MachineService
	Revenue  *RevenueService
	Uptime   *UptimeService
	Reports  *ReportService
	Ingest   *IngestService
}

// New wires the service layer. alerts and store may be nil when cloud
// services are disabled; the affected features degrade to no-ops or errors.
func New(db *sqlx.DB, alerts *cloud.SNSClient, store *cloud.S3Client) *Services {
	repos := repository.New(db)
	machines := &MachineService{repos: repos, alerts: alerts}
	revenue := &RevenueService{repos: repos}
	return &Services{
		Repos:    repos,
		Machines: machines,
		Revenue:  revenue,
		Uptime:   &UptimeService{repos: repos},
		Reports:  &ReportService{revenue: revenue, store: store},
		Ingest:   &IngestService{machines: machines, revenue: revenue},
	}
}
