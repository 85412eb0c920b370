package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashir876/catch-collect/internal/models"
)

func TestWindowAt_KnownSelectors(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		selector models.TimeRange
		days     int
	}{
		{models.Range7d, 7},
		{models.Range30d, 30},
		{models.Range60d, 60},
		{models.Range90d, 90},
		{models.Range180d, 180},
		{models.Range365d, 365},
		{models.Range730d, 730},
	}

	for _, tt := range tests {
		window, err := windowAt(tt.selector, now)
		require.NoError(t, err, "selector %q", tt.selector)
		assert.Equal(t, tt.days, window.Days)
		assert.Equal(t, now.AddDate(0, 0, -tt.days), window.Cutoff)
	}
}

func TestWindowAt_All(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	window, err := windowAt(models.RangeAll, now)
	require.NoError(t, err)
	assert.Zero(t, window.Days)
	assert.Equal(t, time.Unix(0, 0).UTC(), window.Cutoff)
}

func TestWindowAt_UnknownSelector(t *testing.T) {
	for _, selector := range []models.TimeRange{"", "14d", "1y", "week", "7D"} {
		_, err := windowAt(selector, time.Now())
		assert.Error(t, err, "selector %q", selector)
		if err != nil {
			assert.Contains(t, err.Error(), "unknown time range")
		}
	}
}
