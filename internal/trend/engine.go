// Package trend derives long-run stability, trajectory, and bellwether
// metrics from a county's full multi-cycle history, and buckets the county
// into a categorical classification.
package trend

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kaelinwanghu/swingvisualizer/internal/common"
	"github.com/kaelinwanghu/swingvisualizer/internal/model"
)

// MinCycles is the number of cycles a county needs before long-run metrics
// mean anything.
const MinCycles = 3

// Engine computes per-county trend records against a fixed table of
// national popular-vote winners.
type Engine struct {
	nationalWinners map[int]model.Party
}

// NewEngine creates an Engine. The winner table must cover every year the
// pipeline is configured for; bellwether scores silently exclude cycles the
// table is missing, so an incomplete table corrupts scores rather than
// failing.
func NewEngine(nationalWinners map[int]model.Party, electionYears []int) (*Engine, error) {
	for _, year := range electionYears {
		if _, ok := nationalWinners[year]; !ok {
			return nil, fmt.Errorf("%w: no national winner recorded for %d", common.ErrInvalidConfig, year)
		}
	}
	return &Engine{nationalWinners: nationalWinners}, nil
}

// Compute derives a county's trend record from its cycle history. Histories
// shorter than MinCycles classify as INSUFFICIENT_DATA with nil metrics.
// The history need not be contiguous; adjacency means adjacent in the
// sorted sequence, not in calendar years.
func (e *Engine) Compute(fips, county, state string, history []model.CycleObservation) model.TrendRecord {
	sorted := append([]model.CycleObservation(nil), history...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	record := model.TrendRecord{
		FIPS:           fips,
		County:         county,
		State:          state,
		CyclesWithData: len(sorted),
	}
	if len(sorted) > 0 {
		record.FirstCycle = sorted[0].Year
		record.LastCycle = sorted[len(sorted)-1].Year
	}
	if len(sorted) < MinCycles {
		record.Classification = model.InsufficientData
		return record
	}

	m := &model.TrendMetrics{}
	record.Metrics = m

	margins := make([]float64, len(sorted))
	years := make([]float64, len(sorted))
	swings := make([]float64, len(sorted))
	minYear := float64(sorted[0].Year)
	for i, obs := range sorted {
		margins[i] = obs.Margin
		years[i] = (float64(obs.Year) - minYear) / 4
		// A cycle with no swing (the county's first observed cycle)
		// contributes zero magnitude, not a gap.
		if obs.Swing != nil {
			swings[i] = *obs.Swing
		}
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Winner != sorted[i-1].Winner {
			m.TotalFlips++
		}
	}
	m.FlipRate = float64(m.TotalFlips) / float64(len(sorted)-1)

	m.AvgMargin = stat.Mean(margins, nil)
	m.MedianMargin = median(margins)
	m.MarginStdDev = stat.PopStdDev(margins, nil)

	demWins, repWins := 0, 0
	for _, obs := range sorted {
		switch obs.Winner {
		case model.PartyDemocrat:
			demWins++
		case model.PartyRepublican:
			repWins++
		}
	}
	if known := demWins + repWins; known > 0 {
		m.DemWinPct = float64(demWins) / float64(known) * 100
		m.RepWinPct = float64(repWins) / float64(known) * 100
	}

	_, slope := stat.LinearRegression(years, margins, nil, false)
	m.Trajectory = slope
	switch {
	case slope > 2:
		m.TrajectoryDirection = model.TrendingDem
	case slope < -2:
		m.TrajectoryDirection = model.TrendingRep
	default:
		m.TrajectoryDirection = model.Stable
	}

	for _, s := range swings {
		m.AvgSwingMagnitude += math.Abs(s)
		m.MaxSwing = math.Max(m.MaxSwing, math.Abs(s))
	}
	m.AvgSwingMagnitude /= float64(len(swings))

	closeElections := 0
	for _, margin := range margins {
		m.AvgCompetitiveness += math.Abs(margin)
		if math.Abs(margin) < 5 {
			closeElections++
		}
	}
	m.CloseElectionRate = float64(closeElections) / float64(len(margins)) * 100
	m.AvgCompetitiveness /= float64(len(margins))

	record.Classification = Classify(m.AvgMargin, m.MarginStdDev, m.FlipRate, m.CloseElectionRate)
	m.BellwetherScore = e.bellwetherScore(sorted)

	return record
}

// Classify buckets a county by its long-run metrics. The rules are
// priority-ordered and the first match wins; the ordering is deliberate
// policy, so an entrenched county that also flips often stays SOLID.
func Classify(avgMargin, marginStdDev, flipRate, closeElectionRate float64) model.Classification {
	lean := func(dem, rep model.Classification) model.Classification {
		if avgMargin > 0 {
			return dem
		}
		return rep
	}
	switch {
	case math.Abs(avgMargin) > 15 && marginStdDev < 8 && flipRate < 0.2:
		return lean(model.SolidDem, model.SolidRep)
	case math.Abs(avgMargin) > 5 && flipRate < 0.4:
		return lean(model.LeanDem, model.LeanRep)
	case flipRate >= 0.4 || closeElectionRate > 60:
		return model.Swing
	case math.Abs(avgMargin) <= 5:
		return lean(model.CompetitiveDem, model.CompetitiveRep)
	default:
		return lean(model.LeanDem, model.LeanRep)
	}
}

// bellwetherScore is the percentage of the county's cycles whose winner
// matched the national popular-vote winner. Cycles missing from the
// national table count toward neither side of the ratio.
func (e *Engine) bellwetherScore(history []model.CycleObservation) float64 {
	matches, total := 0, 0
	for _, obs := range history {
		national, ok := e.nationalWinners[obs.Year]
		if !ok {
			continue
		}
		if obs.Winner == national {
			matches++
		}
		total++
	}
	if total == 0 {
		return 0
	}
	return float64(matches) / float64(total) * 100
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.LinInterp, sorted, nil)
}
