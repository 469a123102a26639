package csvio

import (
	"github.com/kaelinwanghu/swingvisualizer/internal/config"
	"github.com/kaelinwanghu/swingvisualizer/internal/model"
)

// Stage names used in missing-input errors.
const (
	StageDownload  = "download"
	StageClean     = "clean"
	StageGeography = "geography"
	StageSwings    = "swings"
	StageMerge     = "merge"
)

// LoadRawReturns reads the raw long-form MIT returns file.
func LoadRawReturns(path string) ([]model.CountyReturn, error) {
	return ReadArtifact[model.CountyReturn](path, StageDownload)
}

// LoadElection reads one cycle's aggregated results.
func LoadElection(paths config.Paths, year int) ([]model.CountyResult, error) {
	return ReadArtifact[model.CountyResult](paths.ElectionFile(year), StageClean)
}

// WriteElection writes one cycle's aggregated results.
func WriteElection(paths config.Paths, year int, rows []model.CountyResult) error {
	return WriteAll(paths.ElectionFile(year), rows)
}

// LoadSwings reads one cycle pair's swing records.
func LoadSwings(paths config.Paths, year1, year2 int) ([]model.SwingRecord, error) {
	return ReadArtifact[model.SwingRecord](paths.SwingFile(year1, year2), StageSwings)
}

// WriteSwings writes one cycle pair's swing records.
func WriteSwings(paths config.Paths, year1, year2 int, rows []model.SwingRecord) error {
	return WriteAll(paths.SwingFile(year1, year2), rows)
}

// WriteSwingSummary writes the cross-period summary, one row per pair.
func WriteSwingSummary(paths config.Paths, rows []model.PairSummary) error {
	return WriteAll(paths.SwingSummaryFile(), rows)
}

// WriteVolatility writes the county volatility ranking.
func WriteVolatility(paths config.Paths, rows []model.VolatilityRecord) error {
	return WriteAll(paths.VolatilityFile(), rows)
}

// ClassificationRow is the flat CSV projection of a trend record. Metric
// columns are pointers so INSUFFICIENT_DATA counties serialize as empty
// cells rather than zeroes pretending to be data.
type ClassificationRow struct {
	FlipRate            *float64 `csv:"flip_rate"`
	AvgMargin           *float64 `csv:"avg_margin"`
	MedianMargin        *float64 `csv:"median_margin"`
	MarginStdDev        *float64 `csv:"margin_std"`
	DemWinPct           *float64 `csv:"dem_win_pct"`
	RepWinPct           *float64 `csv:"rep_win_pct"`
	Trajectory          *float64 `csv:"trajectory"`
	AvgSwingMagnitude   *float64 `csv:"avg_swing_magnitude"`
	MaxSwing            *float64 `csv:"max_swing"`
	CloseElectionRate   *float64 `csv:"close_election_rate"`
	AvgCompetitiveness  *float64 `csv:"avg_competitiveness"`
	BellwetherScore     *float64 `csv:"bellwether_score"`
	TotalFlips          *int     `csv:"total_flips"`
	FIPS                string   `csv:"fips"`
	County              string   `csv:"county"`
	State               string   `csv:"state"`
	Classification      string   `csv:"classification"`
	TrajectoryDirection string   `csv:"trajectory_direction"`
	YearsWithData       int      `csv:"years_with_data"`
	FirstYear           int      `csv:"first_year"`
	LastYear            int      `csv:"last_year"`
}

// FlattenTrend projects one trend record into its CSV row.
func FlattenTrend(r model.TrendRecord) ClassificationRow {
	row := ClassificationRow{
		FIPS:           r.FIPS,
		County:         r.County,
		State:          r.State,
		Classification: string(r.Classification),
		YearsWithData:  r.CyclesWithData,
		FirstYear:      r.FirstCycle,
		LastYear:       r.LastCycle,
	}
	if m := r.Metrics; m != nil {
		row.FlipRate = &m.FlipRate
		row.AvgMargin = &m.AvgMargin
		row.MedianMargin = &m.MedianMargin
		row.MarginStdDev = &m.MarginStdDev
		row.DemWinPct = &m.DemWinPct
		row.RepWinPct = &m.RepWinPct
		row.Trajectory = &m.Trajectory
		row.AvgSwingMagnitude = &m.AvgSwingMagnitude
		row.MaxSwing = &m.MaxSwing
		row.CloseElectionRate = &m.CloseElectionRate
		row.AvgCompetitiveness = &m.AvgCompetitiveness
		row.BellwetherScore = &m.BellwetherScore
		row.TotalFlips = &m.TotalFlips
		row.TrajectoryDirection = string(m.TrajectoryDirection)
	}
	return row
}

// WriteClassifications writes the per-county classification CSV.
func WriteClassifications(paths config.Paths, records []model.TrendRecord) error {
	rows := make([]ClassificationRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, FlattenTrend(r))
	}
	return WriteAll(paths.ClassificationsFile(), rows)
}

// WriteBellwethers writes the bellwether shortlist CSV.
func WriteBellwethers(paths config.Paths, records []model.TrendRecord) error {
	rows := make([]ClassificationRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, FlattenTrend(r))
	}
	return WriteAll(paths.BellwetherFile(), rows)
}
