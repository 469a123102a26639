package swing

import (
	"sort"

	"github.com/kaelinwanghu/swingvisualizer/internal/model"
)

// AggregateVolatility folds swing records from every cycle pair into one
// volatility row per county: how often it appeared, how often it flipped,
// and its mean swing magnitude. Sorted most volatile first.
func AggregateVolatility(allPairs [][]model.SwingRecord) []model.VolatilityRecord {
	type acc struct {
		record       model.VolatilityRecord
		magnitudeSum float64
	}

	byFIPS := make(map[string]*acc)
	var order []string

	for _, pair := range allPairs {
		for _, r := range pair {
			a, ok := byFIPS[r.FIPS]
			if !ok {
				a = &acc{record: model.VolatilityRecord{
					FIPS:   r.FIPS,
					County: r.County,
					State:  r.State,
				}}
				byFIPS[r.FIPS] = a
				order = append(order, r.FIPS)
			}
			a.record.Appearances++
			a.magnitudeSum += r.SwingMagnitude
			if r.Flipped {
				a.record.TotalFlips++
			}
		}
	}

	out := make([]model.VolatilityRecord, 0, len(order))
	for _, fips := range order {
		a := byFIPS[fips]
		a.record.AvgSwingMagnitude = a.magnitudeSum / float64(a.record.Appearances)
		out = append(out, a.record)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgSwingMagnitude != out[j].AvgSwingMagnitude {
			return out[i].AvgSwingMagnitude > out[j].AvgSwingMagnitude
		}
		return out[i].FIPS < out[j].FIPS
	})
	return out
}
