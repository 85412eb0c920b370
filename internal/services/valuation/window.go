package valuation

import (
	"fmt"
	"time"

	"github.com/ashir876/catch-collect/internal/models"
)

// rangeDays maps every symbolic range selector to its day count.
// RangeAll maps to 0, meaning unbounded.
var rangeDays = map[models.TimeRange]int{
	models.Range7d:   7,
	models.Range30d:  30,
	models.Range60d:  60,
	models.Range90d:  90,
	models.Range180d: 180,
	models.Range365d: 365,
	models.Range730d: 730,
	models.RangeAll:  0,
}

// windowAt translates a symbolic range selector into a concrete day count and
// cutoff computed against now. An unknown selector is a contract violation
// between UI and engine and returns an error rather than a silent default.
func windowAt(selector models.TimeRange, now time.Time) (models.TimeWindow, error) {
	days, ok := rangeDays[selector]
	if !ok {
		return models.TimeWindow{}, fmt.Errorf("unknown time range %q", selector)
	}

	if days == 0 {
		return models.TimeWindow{Days: 0, Cutoff: time.Unix(0, 0).UTC()}, nil
	}

	return models.TimeWindow{
		Days:   days,
		Cutoff: now.AddDate(0, 0, -days),
	}, nil
}
