package trend

import (
	"sort"

	"github.com/kaelinwanghu/swingvisualizer/internal/model"
)

// BellwetherShortlistScore is the minimum score for the shortlist.
const BellwetherShortlistScore = 80.0

// CountyHistory is one county's identity plus its full cycle history.
// Identity fields come from the county's most recent cycle.
type CountyHistory struct {
	FIPS         string
	County       string
	State        string
	Observations []model.CycleObservation
}

// BuildHistories folds per-cycle results and per-pair swing records into
// one history per county, ordered by FIPS. A county's swing for cycle Y is
// the swing of the pair ending in Y; the first observed cycle has none.
func BuildHistories(resultsByYear map[int][]model.CountyResult, swingPairs [][]model.SwingRecord) []CountyHistory {
	swingFor := make(map[string]map[int]float64)
	for _, pair := range swingPairs {
		for _, r := range pair {
			if swingFor[r.FIPS] == nil {
				swingFor[r.FIPS] = make(map[int]float64)
			}
			swingFor[r.FIPS][r.Year2] = r.Swing
		}
	}

	years := make([]int, 0, len(resultsByYear))
	for year := range resultsByYear {
		years = append(years, year)
	}
	sort.Ints(years)

	histories := make(map[string]*CountyHistory)
	var order []string
	for _, year := range years {
		for _, r := range resultsByYear[year] {
			h, ok := histories[r.FIPS]
			if !ok {
				h = &CountyHistory{FIPS: r.FIPS}
				histories[r.FIPS] = h
				order = append(order, r.FIPS)
			}
			h.County = r.County
			h.State = r.State

			obs := model.CycleObservation{
				Year:   year,
				Margin: r.Margin,
				Winner: r.Winner,
			}
			if byYear, ok := swingFor[r.FIPS]; ok {
				if s, ok := byYear[year]; ok {
					obs.Swing = &s
				}
			}
			h.Observations = append(h.Observations, obs)
		}
	}

	sort.Strings(order)
	out := make([]CountyHistory, 0, len(order))
	for _, fips := range order {
		out = append(out, *histories[fips])
	}
	return out
}

// BellwetherShortlist filters trend records to swing counties that track
// the national winner, sorted by score descending.
func BellwetherShortlist(records []model.TrendRecord) []model.TrendRecord {
	var out []model.TrendRecord
	for _, r := range records {
		if r.Classification != model.Swing || r.Metrics == nil {
			continue
		}
		if r.Metrics.BellwetherScore >= BellwetherShortlistScore {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Metrics.BellwetherScore != out[j].Metrics.BellwetherScore {
			return out[i].Metrics.BellwetherScore > out[j].Metrics.BellwetherScore
		}
		return out[i].FIPS < out[j].FIPS
	})
	return out
}
