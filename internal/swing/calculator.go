// Package swing computes inter-cycle deltas for counties present in two
// adjacent election cycles, and folds per-pair results into cross-period
// volatility rankings.
package swing

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kaelinwanghu/swingvisualizer/internal/common"
	"github.com/kaelinwanghu/swingvisualizer/internal/match"
	"github.com/kaelinwanghu/swingvisualizer/internal/model"
)

// fallbackThreshold is the FIPS match rate (percent of the smaller input)
// below which name+state reconciliation kicks in.
const fallbackThreshold = 95.0

// Calculator joins two cycles of county results and derives swing records.
type Calculator struct {
	matcher *match.Matcher
}

// NewCalculator creates a Calculator that uses the given matcher for
// identifier fallback.
func NewCalculator(matcher *match.Matcher) *Calculator {
	return &Calculator{matcher: matcher}
}

// Calculate inner-joins year1 and year2 results on FIPS and computes every
// swing field. A join that produces more rows than the larger input means
// duplicate identifiers survived upstream and silently corrupts every
// downstream percentage, so that is the one hard failure here.
func (c *Calculator) Calculate(y1, y2 []model.CountyResult, year1, year2 int) ([]model.SwingRecord, error) {
	y1 = dedupe(y1, year1)
	y2 = dedupe(y2, year2)

	y2ByFIPS := make(map[string]int, len(y2))
	for i, r := range y2 {
		y2ByFIPS[r.FIPS] = i
	}

	type joined struct{ left, right int }
	var pairs []joined
	var unmatchedLeft []int
	y2Taken := make(map[int]bool, len(y2))

	for i, r := range y1 {
		if j, ok := y2ByFIPS[r.FIPS]; ok {
			pairs = append(pairs, joined{left: i, right: j})
			y2Taken[j] = true
			continue
		}
		unmatchedLeft = append(unmatchedLeft, i)
	}

	smaller := min(len(y1), len(y2))
	if smaller > 0 && float64(len(pairs))/float64(smaller)*100 < fallbackThreshold {
		slog.Warn("direct FIPS join left excessive unmatched rows, reconciling by name",
			"year1", year1, "year2", year2,
			"fips_matched", len(pairs), "smaller_input", smaller)

		left := make([]match.Keyed, 0, len(unmatchedLeft))
		for _, i := range unmatchedLeft {
			left = append(left, match.Keyed{FIPS: y1[i].FIPS, County: y1[i].County, State: y1[i].State})
		}
		right := make([]match.Keyed, 0, len(y2))
		rightIdx := make([]int, 0, len(y2))
		for j, r := range y2 {
			if y2Taken[j] {
				continue
			}
			right = append(right, match.Keyed{FIPS: r.FIPS, County: r.County, State: r.State})
			rightIdx = append(rightIdx, j)
		}

		recovered, stats, err := c.matcher.Match(left, right)
		if err != nil {
			return nil, fmt.Errorf("reconciling %d->%d: %w", year1, year2, err)
		}
		match.LogStats(stats)
		for _, p := range recovered {
			if p.Via != match.ViaName {
				continue
			}
			pairs = append(pairs, joined{left: unmatchedLeft[p.Left], right: rightIdx[p.Right]})
		}
	}

	if len(pairs) > max(len(y1), len(y2)) {
		return nil, fmt.Errorf("%w: %d->%d join produced %d rows from %d and %d inputs",
			common.ErrJoinIntegrity, year1, year2, len(pairs), len(y1), len(y2))
	}

	slog.Info("matched counties in both cycles",
		"year1", year1, "year2", year2,
		"matched", len(pairs),
		"unmatched_y1", len(y1)-len(pairs),
		"unmatched_y2", len(y2)-len(pairs))

	records := make([]model.SwingRecord, 0, len(pairs))
	nameMismatches := 0
	for _, p := range pairs {
		a, b := y1[p.left], y2[p.right]

		if a.County != b.County && nameMismatches < 5 {
			slog.Warn("county name changed between cycles",
				"fips", a.FIPS, "was", a.County, "now", b.County)
			nameMismatches++
		}

		rec := model.SwingRecord{
			FIPS:         a.FIPS,
			County:       a.County,
			State:        a.State,
			StatePO:      a.StatePO,
			DemShareY1:   a.DemShare,
			RepShareY1:   a.RepShare,
			DemVotesY1:   a.Democrat,
			RepVotesY1:   a.Republican,
			TotalVotesY1: a.TotalVotes,
			WinnerY1:     a.Winner,
			DemShareY2:   b.DemShare,
			RepShareY2:   b.RepShare,
			DemVotesY2:   b.Democrat,
			RepVotesY2:   b.Republican,
			TotalVotesY2: b.TotalVotes,
			WinnerY2:     b.Winner,
			Year1:        year1,
			Year2:        year2,
			Period:       fmt.Sprintf("%d_%d", year1, year2),
		}

		rec.Swing = rec.DemShareY2 - rec.DemShareY1
		rec.MarginChange = (rec.DemShareY2 - rec.RepShareY2) - (rec.DemShareY1 - rec.RepShareY1)
		rec.SwingMagnitude = math.Abs(rec.Swing)
		switch {
		case rec.Swing > 0:
			rec.SwingDirection = model.SwingTowardDem
		case rec.Swing < 0:
			rec.SwingDirection = model.SwingTowardRep
		default:
			rec.SwingDirection = model.SwingNoChange
		}

		rec.Flipped = rec.WinnerY1 != rec.WinnerY2
		if rec.Flipped {
			rec.FlipDirection = model.FlipLabel(rec.WinnerY1, rec.WinnerY2)
		} else {
			rec.FlipDirection = model.NoFlip
		}

		rec.TurnoutChange = rec.TotalVotesY2 - rec.TotalVotesY1
		// Element-wise: a county with zero votes in year1 gets a null
		// percentage, never an infinity.
		if rec.TotalVotesY1 > 0 {
			pct := round2(float64(rec.TurnoutChange) / float64(rec.TotalVotesY1) * 100)
			rec.TurnoutChangePct = &pct
		}

		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].FIPS < records[j].FIPS })
	return records, nil
}

// Analyze summarizes one cycle pair's swing records.
func Analyze(records []model.SwingRecord, year1, year2 int) model.PairSummary {
	summary := model.PairSummary{
		Year1:         year1,
		Year2:         year2,
		TotalCounties: len(records),
	}
	if len(records) == 0 {
		return summary
	}

	swings := make([]float64, 0, len(records))
	var turnouts []float64
	summary.MaxDemSwing = math.Inf(-1)
	summary.MaxRepSwing = math.Inf(1)

	for _, r := range records {
		swings = append(swings, r.Swing)
		summary.MaxDemSwing = math.Max(summary.MaxDemSwing, r.Swing)
		summary.MaxRepSwing = math.Min(summary.MaxRepSwing, r.Swing)

		switch {
		case r.Swing > 0:
			summary.CountiesSwingDem++
		case r.Swing < 0:
			summary.CountiesSwingRep++
		default:
			summary.CountiesNoSwing++
		}

		if r.Flipped {
			summary.TotalFlips++
			switch {
			case r.WinnerY1 == model.PartyDemocrat && r.WinnerY2 == model.PartyRepublican:
				summary.DemToRep++
			case r.WinnerY1 == model.PartyRepublican && r.WinnerY2 == model.PartyDemocrat:
				summary.RepToDem++
			}
		}

		if r.TurnoutChangePct != nil {
			turnouts = append(turnouts, *r.TurnoutChangePct)
		}
	}

	summary.AvgSwing = stat.Mean(swings, nil)
	summary.StdSwing = stat.StdDev(swings, nil)
	sorted := append([]float64(nil), swings...)
	sort.Float64s(sorted)
	summary.MedianSwing = stat.Quantile(0.5, stat.LinInterp, sorted, nil)

	if len(turnouts) > 0 {
		avg := stat.Mean(turnouts, nil)
		summary.AvgTurnoutChangePct = &avg
	}

	return summary
}

func dedupe(results []model.CountyResult, year int) []model.CountyResult {
	seen := make(map[string]bool, len(results))
	out := results[:0:0]
	dupes := 0
	for _, r := range results {
		if seen[r.FIPS] {
			dupes++
			continue
		}
		seen[r.FIPS] = true
		out = append(out, r)
	}
	if dupes > 0 {
		slog.Warn("duplicate FIPS codes in cycle data, keeping first occurrence",
			"year", year, "count", dupes)
	}
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
