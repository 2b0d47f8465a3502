package service

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/barcadehq/arcade-tracker/internal/domain"
)

// cabinetEvent is the payload networked cabinets publish over MQTT. Kind
// selects which fields apply.
type cabinetEvent struct {
	MachineID int64     `json:"machine_id"`
	Kind      string    `json:"kind"` // "status" or "revenue"
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	IsToken   bool      `json:"is_token,omitempty"`
}

// IngestService persists events arriving from networked cabinets.
type IngestService struct {
	machines *MachineService
	revenue  *RevenueService
}

func (s *IngestService) FromMQTT(ctx context.Context, topic string, payload []byte) error {
	var ev cabinetEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decode cabinet event: %w", err)
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	switch ev.Kind {
	case "status":
		return s.machines.RecordStatus(ctx, ev.MachineID, ev.Timestamp, domain.MachineStatus(ev.Status), "reported by cabinet")
	case "revenue":
		return s.revenue.Record(ev.MachineID, ev.Timestamp, ev.Amount, ev.IsToken)
	}
	return fmt.Errorf("unknown cabinet event kind %q on %s", ev.Kind, topic)
}
