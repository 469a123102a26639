// Package config resolves the on-disk data layout and the fixed election
// calendar used by every pipeline stage.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/kaelinwanghu/swingvisualizer/internal/common"
	"github.com/kaelinwanghu/swingvisualizer/internal/model"
)

// ElectionYears is the closed set of supported presidential cycles.
var ElectionYears = []int{2000, 2004, 2008, 2012, 2016, 2020, 2024}

// NationalWinners maps each cycle to its national popular-vote winner.
// Gore and Clinton won the popular vote while losing the election, so 2000
// and 2016 count as Democratic cycles here.
var NationalWinners = map[int]model.Party{
	2000: model.PartyDemocrat,
	2004: model.PartyRepublican,
	2008: model.PartyDemocrat,
	2012: model.PartyDemocrat,
	2016: model.PartyDemocrat,
	2020: model.PartyDemocrat,
	2024: model.PartyRepublican,
}

// The MIT 2024 release shipped systematically wrong county FIPS codes.
// For that cycle FIPS is rebuilt by name matching against the 2020 set.
const (
	CorruptedFIPSYear = 2024
	ReferenceFIPSYear = 2020
)

// Processing thresholds.
const (
	// MinTotalVotes is the floor below which a county's turnout is flagged.
	MinTotalVotes = 10
	// SimplifyTolerance is the default geometry simplification tolerance in
	// degrees (~100m resolution).
	SimplifyTolerance = 0.001
)

// ValidYear reports whether year is a supported election cycle.
func ValidYear(year int) bool {
	for _, y := range ElectionYears {
		if y == year {
			return true
		}
	}
	return false
}

// AdjacentPairs returns the consecutive cycle pairs used for swing
// calculations, oldest first.
func AdjacentPairs() [][2]int {
	pairs := make([][2]int, 0, len(ElectionYears)-1)
	for i := 0; i < len(ElectionYears)-1; i++ {
		pairs = append(pairs, [2]int{ElectionYears[i], ElectionYears[i+1]})
	}
	return pairs
}

// CheckNationalWinners verifies the national-winner table covers every
// supported cycle, so bellwether scores never silently lose a cycle.
func CheckNationalWinners() error {
	for _, year := range ElectionYears {
		if _, ok := NationalWinners[year]; !ok {
			return fmt.Errorf("%w: national winner table missing %d", common.ErrInvalidConfig, year)
		}
	}
	return nil
}

// Paths resolves every artifact location under a single data directory.
type Paths struct {
	DataDir string
}

// Load builds Paths from viper configuration. The data-dir flag supplies
// the default; an empty value means the configuration explicitly blanked
// it, which is an error rather than a silent fallback.
func Load() (Paths, error) {
	dataDir := viper.GetString("data.dir")
	if dataDir == "" {
		return Paths{}, fmt.Errorf("%w: data.dir is empty", common.ErrMissingConfig)
	}
	return Paths{DataDir: dataDir}, nil
}

// Directory layout under DataDir.

// RawDir holds the unprocessed MIT Election Lab download.
func (p Paths) RawDir() string { return filepath.Join(p.DataDir, "raw", "mit-election-lab") }

// CensusDir holds the Census boundary GeoJSON.
func (p Paths) CensusDir() string { return filepath.Join(p.DataDir, "raw", "census") }

// ElectionsDir holds per-cycle aggregated CSVs.
func (p Paths) ElectionsDir() string { return filepath.Join(p.DataDir, "processed", "elections") }

// GeoJSONDir holds the processed base county geometries.
func (p Paths) GeoJSONDir() string { return filepath.Join(p.DataDir, "processed", "geojson") }

// CombinedDir holds merged election+geography files and swing CSVs.
func (p Paths) CombinedDir() string { return filepath.Join(p.DataDir, "processed", "combined") }

// ExportsDir is the default frontend bundle destination.
func (p Paths) ExportsDir() string { return filepath.Join(p.DataDir, "exports") }

// EnsureDirs creates the full directory layout.
func (p Paths) EnsureDirs() error {
	dirs := []string{
		p.RawDir(), p.CensusDir(), p.ElectionsDir(),
		p.GeoJSONDir(), p.CombinedDir(), p.ExportsDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Artifact paths.

// ElectionFile is the aggregated per-cycle CSV.
func (p Paths) ElectionFile(year int) string {
	return filepath.Join(p.ElectionsDir(), fmt.Sprintf("elections_%d.csv", year))
}

// SwingFile is the per-pair swing CSV.
func (p Paths) SwingFile(year1, year2 int) string {
	return filepath.Join(p.CombinedDir(), fmt.Sprintf("swings_%d_to_%d.csv", year1, year2))
}

// SwingSummaryFile is the cross-period summary CSV.
func (p Paths) SwingSummaryFile() string {
	return filepath.Join(p.CombinedDir(), "swing_summary.csv")
}

// VolatilityFile ranks counties by swing volatility across all pairs.
func (p Paths) VolatilityFile() string {
	return filepath.Join(p.CombinedDir(), "county_volatility.csv")
}

// ClassificationsFile is the per-county classification CSV.
func (p Paths) ClassificationsFile() string {
	return filepath.Join(p.CombinedDir(), "county_classifications.csv")
}

// BellwetherFile is the bellwether shortlist CSV.
func (p Paths) BellwetherFile() string {
	return filepath.Join(p.CombinedDir(), "bellwether_counties.csv")
}

// CountiesGeoJSON is the processed base geometry file.
func (p Paths) CountiesGeoJSON() string {
	return filepath.Join(p.GeoJSONDir(), "counties.geojson")
}

// RawCountiesGeoJSON is the Census boundary input.
func (p Paths) RawCountiesGeoJSON() string {
	return filepath.Join(p.CensusDir(), "counties_raw.geojson")
}

// CombinedFile is the merged election+geography GeoJSON for one cycle.
func (p Paths) CombinedFile(year int) string {
	return filepath.Join(p.CombinedDir(), fmt.Sprintf("election_map_%d.geojson", year))
}
