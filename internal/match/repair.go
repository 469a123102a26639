package match

import (
	"log/slog"

	"github.com/kaelinwanghu/swingvisualizer/internal/model"
	"github.com/kaelinwanghu/swingvisualizer/internal/normalize"
)

// FIPSLookup resolves a normalized (county, state) key to a trusted FIPS.
type FIPSLookup map[string]string

// BuildFIPSLookup indexes a trusted cycle's results by normalized
// county+state key.
func BuildFIPSLookup(names *normalize.NameNormalizer, reference []model.CountyResult) FIPSLookup {
	lookup := make(FIPSLookup, len(reference))
	for _, r := range reference {
		key := names.Key(r.County, r.State)
		if _, seen := lookup[key]; !seen {
			lookup[key] = r.FIPS
		}
	}
	return lookup
}

// RepairStats reports the outcome of a cycle repair.
type RepairStats struct {
	Total     int
	Repaired  int
	Corrected int
	Dropped   int
}

// RepairCycle discards the source FIPS of every raw row and reassigns it
// by name+state lookup against a trusted cycle. Rows that cannot be
// resolved are dropped, not failed; the caller gets counts for logging.
// Used for the 2024 MIT release, whose county FIPS codes are systematically
// wrong.
func RepairCycle(names *normalize.NameNormalizer, rows []model.CountyReturn, lookup FIPSLookup) ([]model.CountyReturn, RepairStats) {
	stats := RepairStats{Total: len(rows)}
	repaired := make([]model.CountyReturn, 0, len(rows))

	dropped := 0
	for _, row := range rows {
		key := names.Key(row.CountyName, row.State)
		fips, ok := lookup[key]
		if !ok {
			stats.Dropped++
			if dropped < UnmatchedSampleSize {
				slog.Warn("no reference match for county, dropping",
					"county", row.CountyName, "state", row.State)
				dropped++
			}
			continue
		}
		if row.CountyFIPS != fips {
			stats.Corrected++
		}
		row.CountyFIPS = fips
		repaired = append(repaired, row)
	}

	stats.Repaired = len(repaired)
	return repaired, stats
}
