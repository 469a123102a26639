package main

import (
	"fmt"

	"github.com/kaelinwanghu/swingvisualizer/internal/aggregate"
	"github.com/kaelinwanghu/swingvisualizer/internal/common"
	"github.com/kaelinwanghu/swingvisualizer/internal/config"
	"github.com/kaelinwanghu/swingvisualizer/internal/match"
	"github.com/kaelinwanghu/swingvisualizer/internal/model"
	"github.com/kaelinwanghu/swingvisualizer/internal/normalize"
)

// selectYears resolves the shared year-selection flags: one cycle, every
// cycle, or the latest cycle by default.
func selectYears(year int, all bool) ([]int, error) {
	if all {
		return config.ElectionYears, nil
	}
	if year != 0 {
		if !config.ValidYear(year) {
			return nil, fmt.Errorf("%w: %d (supported: %v)", common.ErrInvalidYear, year, config.ElectionYears)
		}
		return []int{year}, nil
	}
	return []int{config.ElectionYears[len(config.ElectionYears)-1]}, nil
}

func newAggregator() *aggregate.Aggregator {
	parties := normalize.NewPartyNormalizer(normalize.DefaultPartySynonyms())
	return aggregate.New(parties, config.MinTotalVotes)
}

func newMatcher() *match.Matcher {
	names := normalize.NewNameNormalizer(normalize.DefaultNameConfig())
	return match.NewMatcher(names)
}

// electionProperties projects an aggregated county row into the property
// map merged onto its boundary feature.
func electionProperties(r model.CountyResult, year int) map[string]interface{} {
	return map[string]interface{}{
		"county":            r.County,
		"state":             r.State,
		"state_po":          r.StatePO,
		"year":              year,
		"total_votes":       r.TotalVotes,
		"DEMOCRAT":          r.Democrat,
		"REPUBLICAN":        r.Republican,
		"LIBERTARIAN":       r.Libertarian,
		"GREEN":             r.Green,
		"OTHER":             r.Other,
		"major_party_votes": r.MajorPartyVotes,
		"dem_share":         r.DemShare,
		"rep_share":         r.RepShare,
		"margin":            r.Margin,
		"winner":            string(r.Winner),
		"winner_color":      model.PartyColors[r.Winner],
	}
}

// swingProperties projects the swing metrics merged onto boundary
// features; the y1/y2 vote columns stay out because the election
// properties already carry them.
func swingProperties(r model.SwingRecord) map[string]interface{} {
	props := map[string]interface{}{
		"swing":           r.Swing,
		"swing_magnitude": r.SwingMagnitude,
		"swing_direction": r.SwingDirection,
		"flipped":         r.Flipped,
		"flip_direction":  r.FlipDirection,
		"margin_change":   r.MarginChange,
	}
	if r.TurnoutChangePct != nil {
		props["turnout_change_pct"] = *r.TurnoutChangePct
	}
	return props
}

// trendProperties projects a trend record into the property map merged
// onto every cycle's combined GeoJSON.
func trendProperties(r model.TrendRecord) map[string]interface{} {
	props := map[string]interface{}{
		"years_with_data": r.CyclesWithData,
		"first_year":      r.FirstCycle,
		"last_year":       r.LastCycle,
		"classification":  string(r.Classification),
	}
	if m := r.Metrics; m != nil {
		props["total_flips"] = m.TotalFlips
		props["flip_rate"] = m.FlipRate
		props["avg_margin"] = m.AvgMargin
		props["median_margin"] = m.MedianMargin
		props["margin_std"] = m.MarginStdDev
		props["dem_win_pct"] = m.DemWinPct
		props["rep_win_pct"] = m.RepWinPct
		props["trajectory"] = m.Trajectory
		props["trajectory_direction"] = string(m.TrajectoryDirection)
		props["avg_swing_magnitude"] = m.AvgSwingMagnitude
		props["max_swing"] = m.MaxSwing
		props["close_election_rate"] = m.CloseElectionRate
		props["avg_competitiveness"] = m.AvgCompetitiveness
		props["bellwether_score"] = m.BellwetherScore
	}
	return props
}
