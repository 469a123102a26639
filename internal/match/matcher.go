// Package match reconciles county identifiers between dataset vintages.
// FIPS codes are renumbered, renamed, and merged between cycles, so joins
// prefer identifier equality and fall back to normalized name+state
// matching for rows whose identifier fails to line up.
package match

import (
	"fmt"
	"log/slog"

	"github.com/kaelinwanghu/swingvisualizer/internal/common"
	"github.com/kaelinwanghu/swingvisualizer/internal/normalize"
)

// UnmatchedSampleSize bounds the diagnostic sample of unmatched rows.
const UnmatchedSampleSize = 10

// Keyed is the minimal row shape reconciliation operates on.
type Keyed struct {
	FIPS   string
	County string
	State  string
}

// Via records which strategy produced a match.
type Via string

// Match strategies, in preference order.
const (
	ViaFIPS Via = "fips"
	ViaName Via = "name"
)

// Pair links a left-table row to a right-table row by index.
type Pair struct {
	Via   Via
	Left  int
	Right int
}

// Stats summarizes a reconciliation run for operator inspection.
type Stats struct {
	UnmatchedLeft  []Keyed
	UnmatchedRight []Keyed
	LeftTotal      int
	RightTotal     int
	FIPSMatches    int
	NameMatches    int
}

// Matched is the total number of row pairs produced.
func (s Stats) Matched() int {
	return s.FIPSMatches + s.NameMatches
}

// MatchRate is the percentage of left-table rows that found a partner.
func (s Stats) MatchRate() float64 {
	if s.LeftTotal == 0 {
		return 0
	}
	return float64(s.Matched()) / float64(s.LeftTotal) * 100
}

// Matcher matches rows across two tables keyed by county identifier.
type Matcher struct {
	names *normalize.NameNormalizer
}

// NewMatcher creates a Matcher using the given name normalizer.
func NewMatcher(names *normalize.NameNormalizer) *Matcher {
	return &Matcher{names: names}
}

// Match pairs left rows with right rows: exact FIPS first, then normalized
// name+state for rows unmatched on both sides. Unmatched rows never fail
// the run; they degrade coverage and are surfaced in Stats. The only error
// is input with no identifying data at all.
func (m *Matcher) Match(left, right []Keyed) ([]Pair, Stats, error) {
	if err := checkIdentifiable(left, "left"); err != nil {
		return nil, Stats{}, err
	}
	if err := checkIdentifiable(right, "right"); err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{LeftTotal: len(left), RightTotal: len(right)}

	rightByFIPS := make(map[string]int, len(right))
	for i, row := range right {
		if row.FIPS == "" {
			continue
		}
		if _, seen := rightByFIPS[row.FIPS]; !seen {
			rightByFIPS[row.FIPS] = i
		}
	}

	pairs := make([]Pair, 0, len(left))
	rightTaken := make(map[int]bool, len(right))
	var unmatchedLeft []int

	for i, row := range left {
		if j, ok := rightByFIPS[row.FIPS]; ok && row.FIPS != "" && !rightTaken[j] {
			pairs = append(pairs, Pair{Left: i, Right: j, Via: ViaFIPS})
			rightTaken[j] = true
			stats.FIPSMatches++
			continue
		}
		unmatchedLeft = append(unmatchedLeft, i)
	}

	// Fallback: normalized name+state over the leftovers on both sides.
	rightByKey := make(map[string]int)
	for j, row := range right {
		if rightTaken[j] {
			continue
		}
		key := m.names.Key(row.County, row.State)
		if _, seen := rightByKey[key]; !seen {
			rightByKey[key] = j
		}
	}

	stillUnmatched := unmatchedLeft[:0]
	for _, i := range unmatchedLeft {
		key := m.names.Key(left[i].County, left[i].State)
		if j, ok := rightByKey[key]; ok && !rightTaken[j] {
			pairs = append(pairs, Pair{Left: i, Right: j, Via: ViaName})
			rightTaken[j] = true
			stats.NameMatches++
			continue
		}
		stillUnmatched = append(stillUnmatched, i)
	}

	for _, i := range stillUnmatched {
		if len(stats.UnmatchedLeft) < UnmatchedSampleSize {
			stats.UnmatchedLeft = append(stats.UnmatchedLeft, left[i])
		}
	}
	for j, row := range right {
		if !rightTaken[j] && len(stats.UnmatchedRight) < UnmatchedSampleSize {
			stats.UnmatchedRight = append(stats.UnmatchedRight, row)
		}
	}

	return pairs, stats, nil
}

// LogStats reports a reconciliation summary at the appropriate levels.
func LogStats(stats Stats) {
	slog.Info("county match summary",
		"left_total", stats.LeftTotal,
		"right_total", stats.RightTotal,
		"matched", stats.Matched(),
		"fips_matches", stats.FIPSMatches,
		"name_matches", stats.NameMatches,
		"match_rate_pct", fmt.Sprintf("%.1f", stats.MatchRate()),
	)
	for _, row := range stats.UnmatchedLeft {
		slog.Warn("unmatched county", "fips", row.FIPS, "county", row.County, "state", row.State)
	}
}

func checkIdentifiable(rows []Keyed, side string) error {
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if row.FIPS != "" || row.County != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: %s table has neither identifiers nor names", common.ErrMissingColumns, side)
}
