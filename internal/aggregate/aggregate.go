// Package aggregate collapses raw county×candidate returns into one wide
// row per county per cycle, with per-party columns and derived shares.
package aggregate

import (
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/kaelinwanghu/swingvisualizer/internal/model"
	"github.com/kaelinwanghu/swingvisualizer/internal/normalize"
)

var fipsRe = regexp.MustCompile(`^\d{5}$`)

// Stats reports what cleaning and aggregation did to a cycle's rows.
type Stats struct {
	Year              int
	RawRows           int
	InvalidFIPS       int
	MissingVotes      int
	NegativeVotes     int
	Counties          int
	TotalVotes        int64
	DemVotes          int64
	RepVotes          int64
	LowTurnout        int
	TotalVariances    int
	AdvisoryOverflows int
}

// Aggregator turns normalized long-form returns into wide per-county rows.
type Aggregator struct {
	parties       *normalize.PartyNormalizer
	minTotalVotes int64
}

// New creates an Aggregator with the given party normalizer and the
// turnout floor below which counties are flagged.
func New(parties *normalize.PartyNormalizer, minTotalVotes int64) *Aggregator {
	return &Aggregator{parties: parties, minTotalVotes: minTotalVotes}
}

// CleanFIPS standardizes a raw identifier: strips a spreadsheet ".0"
// artifact, zero-pads to five digits, and reports whether the result is a
// valid 5-digit code.
func CleanFIPS(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ".0")
	if s == "" {
		return "", false
	}
	for len(s) < 5 {
		s = "0" + s
	}
	return s, fipsRe.MatchString(s)
}

// AggregateCycle produces one CountyResult per county for the given year.
// Rows with invalid identifiers or negative votes are dropped and counted;
// everything else is a total function of the input.
func (a *Aggregator) AggregateCycle(rows []model.CountyReturn, year int) ([]model.CountyResult, Stats) {
	stats := Stats{Year: year}

	cycle := make([]model.CountyReturn, 0, len(rows))
	for _, row := range rows {
		if row.Year != year {
			continue
		}
		stats.RawRows++
		fips, ok := CleanFIPS(row.CountyFIPS)
		if !ok {
			stats.InvalidFIPS++
			continue
		}
		row.CountyFIPS = fips
		cycle = append(cycle, row)
	}

	cycle, voteStats := normalize.CleanVotes(cycle)
	stats.MissingVotes = voteStats.MissingFilled
	stats.NegativeVotes = voteStats.NegativeDropped

	results := make(map[string]*model.CountyResult)
	for _, row := range cycle {
		r, ok := results[row.CountyFIPS]
		if !ok {
			r = &model.CountyResult{
				FIPS:    row.CountyFIPS,
				State:   row.State,
				StatePO: row.StatePO,
				County:  row.CountyName,
				// First observed total wins; it is invariant within a
				// county+cycle by source contract.
				TotalVotes: row.TotalVotes,
			}
			results[row.CountyFIPS] = r
		} else if row.TotalVotes != r.TotalVotes {
			stats.TotalVariances++
		}

		votes := *row.CandidateVotes
		switch a.parties.Normalize(row.Party) {
		case model.PartyDemocrat:
			r.Democrat += votes
		case model.PartyRepublican:
			r.Republican += votes
		case model.PartyLibertarian:
			r.Libertarian += votes
		case model.PartyGreen:
			r.Green += votes
		default:
			// INDEPENDENT folds into OTHER in the wide form.
			r.Other += votes
		}
	}

	out := make([]model.CountyResult, 0, len(results))
	for _, r := range results {
		r.MajorPartyVotes = r.Democrat + r.Republican
		if r.MajorPartyVotes > 0 {
			r.DemShare = round2(float64(r.Democrat) / float64(r.MajorPartyVotes) * 100)
			r.RepShare = round2(float64(r.Republican) / float64(r.MajorPartyVotes) * 100)
			r.Margin = round2(r.DemShare - r.RepShare)
		}
		r.Winner = model.ComputeWinner(r.Democrat, r.Republican)

		if r.MajorPartyVotes > r.TotalVotes {
			// Advisory only: MIT totals frequently exclude third parties,
			// so the reverse check is the meaningful one.
			stats.AdvisoryOverflows++
			slog.Debug("major party votes exceed reported total",
				"fips", r.FIPS, "county", r.County,
				"major", r.MajorPartyVotes, "total", r.TotalVotes)
		}
		if r.TotalVotes < a.minTotalVotes {
			stats.LowTurnout++
		}

		stats.TotalVotes += r.TotalVotes
		stats.DemVotes += r.Democrat
		stats.RepVotes += r.Republican
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].FIPS < out[j].FIPS })
	stats.Counties = len(out)

	if stats.InvalidFIPS > 0 {
		slog.Warn("dropped rows with invalid FIPS codes", "year", year, "count", stats.InvalidFIPS)
	}
	if stats.TotalVariances > 0 {
		slog.Warn("total vote count varied within county groups", "year", year, "count", stats.TotalVariances)
	}

	return out, stats
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
