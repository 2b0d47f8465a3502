package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/barcadehq/arcade-tracker/internal/cloud"
	"github.com/barcadehq/arcade-tracker/internal/timeseries"
)

// ReportService exports revenue series as CSV files to object storage.
type ReportService struct {
	revenue *RevenueService
	store   *cloud.S3Client
}

// ExportRevenueCSV renders the machine's bucketed revenue series to CSV,
// uploads it and returns a presigned download URL.
func (s *ReportService) ExportRevenueCSV(ctx context.Context, machineID int64, w timeseries.Window, g timeseries.Granularity) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("cloud services not enabled")
	}
	series, err := s.revenue.BucketedSeries(machineID, w, g)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write([]string{"t", "amount"}); err != nil {
		return "", err
	}
	for _, p := range series {
		if err := cw.Write([]string{p.T.Format(time.RFC3339), strconv.FormatFloat(p.Amount, 'f', 2, 64)}); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("reports/machine-%d/revenue-%s.csv", machineID, uuid.NewString())
	url, err := s.store.UploadReport(ctx, key, buf.Bytes(), "text/csv")
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}
	return url, nil
}

// List returns stored report keys, optionally limited to one machine.
func (s *ReportService) List(ctx context.Context, machineID int64) ([]string, error) {
	if s.store == nil {
		return nil, fmt.Errorf("cloud services not enabled")
	}
	prefix := "reports/"
	if machineID != 0 {
		prefix = fmt.Sprintf("reports/machine-%d/", machineID)
	}
	return s.store.ListReports(ctx, prefix)
}

// Delete removes a stored report.
func (s *ReportService) Delete(ctx context.Context, key string) error {
	if s.store == nil {
		return fmt.Errorf("cloud services not enabled")
	}
	return s.store.DeleteReport(ctx, key)
}
