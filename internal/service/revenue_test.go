package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barcadehq/arcade-tracker/internal/domain"
)

func TestMergeHistoryNewestFirst(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2024, 1, 1, h, 0, 0, 0, time.UTC)
	}
	status := []domain.StatusEvent{
		{Timestamp: at(10), Action: "fault", Status: domain.StatusOutOfOrder},
		{Timestamp: at(14), Action: "fix", Status: domain.StatusWorking},
	}
	revenue := []domain.RevenueEvent{
		{Timestamp: at(12), Amount: 25, IsToken: true},
	}

	got := mergeHistory(status, revenue)

	require.Len(t, got, 3)
	assert.Equal(t, "status", got[0].Kind)
	assert.Equal(t, "fix", got[0].Action)
	assert.Equal(t, "revenue", got[1].Kind)
	assert.Equal(t, 25.0, got[1].Amount)
	assert.Equal(t, "status", got[2].Kind)
	assert.Equal(t, "fault", got[2].Action)
}

func TestMergeHistoryEmpty(t *testing.T) {
	assert.Empty(t, mergeHistory(nil, nil))
}
