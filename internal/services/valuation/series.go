package valuation

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ashir876/catch-collect/internal/models"
)

const dayLayout = "2006-01-02"

// Synthetic walk tuning. The shared sine term gives both tracks a smooth
// low-frequency trend; the jitter amplitudes keep the market track strictly
// more volatile than the user-declared manual track.
const (
	trendAmplitude  = 0.10
	manualJitterAmp = 0.04
	marketJitterAmp = 0.12
)

// Reconstructor builds value-over-time series from holdings and dated
// observations, falling back to an end-anchored synthetic walk when the
// real history is absent or collapses onto a single calendar day.
type Reconstructor struct {
	rng *rand.Rand
	now func() time.Time
}

// NewReconstructor returns a production reconstructor with time-seeded
// randomness.
func NewReconstructor() *Reconstructor {
	return NewReconstructorWithSource(rand.NewSource(time.Now().UnixNano()), nil)
}

// NewReconstructorWithSource returns a reconstructor with an injected random
// source and optional clock. Tests use a fixed seed and a fixed clock to make
// the synthetic walk reproducible.
func NewReconstructorWithSource(src rand.Source, now func() time.Time) *Reconstructor {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Reconstructor{
		rng: rand.New(src),
		now: now,
	}
}

// BuildSeries reconstructs the value-over-time series for a holdings list.
// The real path accumulates per-day running totals from dated observations
// and acquisition dates; if it yields at most one distinct calendar day the
// series would render as a flat, misleading line, so the synthetic path
// takes over. The resolved batch anchors the synthetic walk so its final
// point always equals the live Aggregate() snapshot.
func (r *Reconstructor) BuildSeries(
	holdings []models.HoldingItem,
	observations []models.PriceObservation,
	resolved []models.ResolvedPrice,
	window models.TimeWindow,
) models.ValueSeries {
	if points, ok := r.buildRealSeries(holdings, observations, window); ok {
		return models.ValueSeries{Points: points, Provenance: models.ProvenanceReal}
	}

	return models.ValueSeries{
		Points:     r.buildSyntheticSeries(holdings, resolved, window),
		Provenance: models.ProvenanceSynthetic,
	}
}

// buildRealSeries walks distinct calendar days ascending, accumulating
// manual-value deltas on acquisition days and market-value deltas on
// observation days. Each point models "value as of that day given everything
// known up to it", not a point-in-time revaluation. Returns ok=false when
// the distinct-day set is degenerate (0 or 1 days).
func (r *Reconstructor) buildRealSeries(
	holdings []models.HoldingItem,
	observations []models.PriceObservation,
	window models.TimeWindow,
) ([]models.ValuePoint, bool) {
	manualDelta := make(map[string]decimal.Decimal)
	marketDelta := make(map[string]decimal.Decimal)

	for _, obs := range observations {
		if obs.RecordedAt.IsZero() || obs.RecordedAt.Before(window.Cutoff) {
			continue
		}
		day := obs.RecordedAt.UTC().Format(dayLayout)
		marketDelta[day] = marketDelta[day].Add(obs.Price)
	}

	for i := range holdings {
		h := &holdings[i]
		if h.AcquiredAt.IsZero() || h.AcquiredAt.Before(window.Cutoff) || !h.HasManualPrice() {
			continue
		}
		day := h.AcquiredAt.UTC().Format(dayLayout)
		manualDelta[day] = manualDelta[day].Add(*h.ManualPrice)
	}

	daySet := make(map[string]bool, len(manualDelta)+len(marketDelta))
	for day := range manualDelta {
		daySet[day] = true
	}
	for day := range marketDelta {
		daySet[day] = true
	}

	if len(daySet) <= 1 {
		return nil, false
	}

	days := make([]string, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Strings(days)

	points := make([]models.ValuePoint, 0, len(days))
	cumulativeManual := decimal.Zero
	cumulativeMarket := decimal.Zero

	for _, day := range days {
		cumulativeManual = cumulativeManual.Add(manualDelta[day])
		cumulativeMarket = cumulativeMarket.Add(marketDelta[day])

		// Keys were formatted with dayLayout above; parse cannot fail.
		ts, _ := time.Parse(dayLayout, day)

		points = append(points, models.ValuePoint{
			Timestamp:   ts,
			ManualValue: cumulativeManual,
			MarketValue: cumulativeMarket,
		})
	}

	return points, true
}

// buildSyntheticSeries generates an end-anchored random walk. The walk runs
// backward from the oldest day to today so that the final point is exactly
// the current aggregate valuation; the chart always agrees with the live
// snapshot at "now". It never reaches further back than the earliest
// acquisition, regardless of the requested window.
func (r *Reconstructor) buildSyntheticSeries(
	holdings []models.HoldingItem,
	resolved []models.ResolvedPrice,
	window models.TimeWindow,
) []models.ValuePoint {
	if len(holdings) == 0 {
		return nil
	}

	summary := Aggregate(holdings, resolved)
	now := r.now()

	earliest := earliestAcquired(holdings, now)
	holdingAgeDays := int(now.Sub(earliest).Hours() / 24)
	if holdingAgeDays < 0 {
		holdingAgeDays = 0
	}

	effectiveDays := holdingAgeDays
	if window.Days > 0 && window.Days < effectiveDays {
		effectiveDays = window.Days
	}

	currentManual, _ := summary.TotalManualValue.Float64()
	currentMarket, _ := summary.TotalAutomaticValue.Float64()

	points := make([]models.ValuePoint, 0, effectiveDays+1)
	for day := effectiveDays; day >= 0; day-- {
		ts := now.AddDate(0, 0, -day)

		if day == 0 {
			points = append(points, models.ValuePoint{
				Timestamp:   ts,
				ManualValue: summary.TotalManualValue,
				MarketValue: summary.TotalAutomaticValue,
			})
			break
		}

		trend := math.Sin(float64(day)*0.05) * trendAmplitude
		manualJitter := (r.rng.Float64() - 0.5) * 2 * manualJitterAmp
		marketJitter := (r.rng.Float64() - 0.5) * 2 * marketJitterAmp

		manual := currentManual * (1 + trend + manualJitter)
		market := currentMarket * (1 + trend + marketJitter)
		if manual < 0 {
			manual = 0
		}
		if market < 0 {
			market = 0
		}

		points = append(points, models.ValuePoint{
			Timestamp:   ts,
			ManualValue: decimal.NewFromFloat(manual),
			MarketValue: decimal.NewFromFloat(market),
		})
	}

	return points
}

// earliestAcquired returns the oldest acquisition timestamp across holdings,
// or now when no holding carries one.
func earliestAcquired(holdings []models.HoldingItem, now time.Time) time.Time {
	earliest := now
	for i := range holdings {
		at := holdings[i].AcquiredAt
		if !at.IsZero() && at.Before(earliest) {
			earliest = at
		}
	}
	return earliest
}
