package model

import "fmt"

// Swing direction labels.
const (
	SwingTowardDem = "DEMOCRAT"
	SwingTowardRep = "REPUBLICAN"
	SwingNoChange  = "NO_CHANGE"
)

// NoFlip is the flip_direction value for counties that did not change winner.
const NoFlip = "NO_FLIP"

// SwingRecord captures the change between two adjacent cycles for one
// county present in both. Produced once per (county, cycle pair) and never
// mutated afterward.
type SwingRecord struct {
	TurnoutChangePct *float64 `csv:"turnout_change_pct"`
	FIPS             string   `csv:"fips"`
	County           string   `csv:"county"`
	State            string   `csv:"state"`
	StatePO          string   `csv:"state_po"`
	SwingDirection   string   `csv:"swing_direction"`
	FlipDirection    string   `csv:"flip_direction"`
	Period           string   `csv:"period"`
	WinnerY1         Party    `csv:"winner_y1"`
	WinnerY2         Party    `csv:"winner_y2"`
	DemShareY1       float64  `csv:"dem_share_y1"`
	RepShareY1       float64  `csv:"rep_share_y1"`
	DemVotesY1       int64    `csv:"dem_votes_y1"`
	RepVotesY1       int64    `csv:"rep_votes_y1"`
	TotalVotesY1     int64    `csv:"total_votes_y1"`
	DemShareY2       float64  `csv:"dem_share_y2"`
	RepShareY2       float64  `csv:"rep_share_y2"`
	DemVotesY2       int64    `csv:"dem_votes_y2"`
	RepVotesY2       int64    `csv:"rep_votes_y2"`
	TotalVotesY2     int64    `csv:"total_votes_y2"`
	Swing            float64  `csv:"swing"`
	MarginChange     float64  `csv:"margin_change"`
	SwingMagnitude   float64  `csv:"swing_magnitude"`
	TurnoutChange    int64    `csv:"turnout_change"`
	Year1            int      `csv:"year1"`
	Year2            int      `csv:"year2"`
	Flipped          bool     `csv:"flipped"`
}

// FlipLabel formats the flip_direction value for a winner change.
func FlipLabel(from, to Party) string {
	return fmt.Sprintf("%s_to_%s", from, to)
}

// PairSummary aggregates one cycle pair's swing records.
type PairSummary struct {
	AvgTurnoutChangePct *float64 `csv:"avg_turnout_change_pct"`
	Year1               int      `csv:"year1"`
	Year2               int      `csv:"year2"`
	TotalCounties       int      `csv:"total_counties"`
	AvgSwing            float64  `csv:"avg_swing"`
	MedianSwing         float64  `csv:"median_swing"`
	StdSwing            float64  `csv:"std_swing"`
	MaxDemSwing         float64  `csv:"max_dem_swing"`
	MaxRepSwing         float64  `csv:"max_rep_swing"`
	CountiesSwingDem    int      `csv:"counties_swing_dem"`
	CountiesSwingRep    int      `csv:"counties_swing_rep"`
	CountiesNoSwing     int      `csv:"counties_no_swing"`
	TotalFlips          int      `csv:"total_flips"`
	DemToRep            int      `csv:"dem_to_rep"`
	RepToDem            int      `csv:"rep_to_dem"`
}

// VolatilityRecord folds a county's swing records across every cycle pair
// it appeared in. Used to rank counties by volatility.
type VolatilityRecord struct {
	FIPS              string  `csv:"fips"`
	County            string  `csv:"county"`
	State             string  `csv:"state"`
	Appearances       int     `csv:"appearances"`
	TotalFlips        int     `csv:"total_flips"`
	AvgSwingMagnitude float64 `csv:"avg_swing_magnitude"`
}
