package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/paulmach/orb/geojson"
)

// baseGeometryProperties are the geographic properties kept in the shared
// geometry file; everything else belongs to the per-year election JSON.
var baseGeometryProperties = map[string]bool{
	"fips":             true,
	"county_name":      true,
	"county_full_name": true,
	"county":           true,
	"state":            true,
	"state_po":         true,
	"state_fips":       true,
	"county_fips":      true,
	"land_area_sqmi":   true,
	"water_area_sqmi":  true,
	"land_area_sqm":    true,
	"water_area_sqm":   true,
}

// electionMapProperties are the per-year properties extracted into the
// FIPS-keyed election JSON files.
var electionMapProperties = map[string]bool{
	"year": true, "total_votes": true,
	"DEMOCRAT": true, "REPUBLICAN": true, "LIBERTARIAN": true, "GREEN": true, "OTHER": true,
	"major_party_votes": true, "dem_share": true, "rep_share": true,
	"margin": true, "margin_change": true, "winner": true, "winner_color": true,
	"swing": true, "swing_magnitude": true, "swing_direction": true,
	"flipped": true, "flip_direction": true, "turnout_change_pct": true,
	"years_with_data": true, "first_year": true, "last_year": true,
	"total_flips": true, "flip_rate": true,
	"avg_margin": true, "median_margin": true, "margin_std": true,
	"dem_win_pct": true, "rep_win_pct": true,
	"trajectory": true, "trajectory_direction": true,
	"avg_swing_magnitude": true, "max_swing": true,
	"close_election_rate": true, "avg_competitiveness": true,
	"classification": true, "bellwether_score": true,
}

// WriteBaseGeometry strips a combined FeatureCollection down to its
// geographic properties and writes the shared counties.geojson.
func WriteBaseGeometry(fc *geojson.FeatureCollection, outDir string) (string, error) {
	base := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		stripped := geojson.NewFeature(f.Geometry)
		for k, v := range f.Properties {
			if !baseGeometryProperties[k] {
				continue
			}
			if cleaned, ok := Sanitize(k, v); ok {
				stripped.Properties[k] = cleaned
			}
		}
		base.Append(stripped)
	}

	path := filepath.Join(outDir, "counties.geojson")
	data, err := base.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encoding base geometry: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing base geometry: %w", err)
	}

	slog.Info("exported base geometry",
		"path", path, "counties", len(base.Features),
		"size_mb", fmt.Sprintf("%.2f", float64(len(data))/1024/1024))
	return path, nil
}

// WriteElectionData extracts a year's election properties, keyed by FIPS,
// into a compact JSON file. Null-valued properties are omitted entirely so
// the frontend never sees a sentinel.
func WriteElectionData(fc *geojson.FeatureCollection, year int, outDir string) (string, error) {
	byFIPS := make(map[string]map[string]interface{}, len(fc.Features))
	for _, f := range fc.Features {
		fips, _ := f.Properties["fips"].(string)
		if fips == "" {
			continue
		}
		county := make(map[string]interface{})
		for k, v := range f.Properties {
			if !electionMapProperties[k] {
				continue
			}
			if cleaned, ok := Sanitize(k, v); ok {
				county[k] = cleaned
			}
		}
		byFIPS[fips] = county
	}

	path := filepath.Join(outDir, fmt.Sprintf("elections_%d.json", year))
	data, err := json.Marshal(byFIPS)
	if err != nil {
		return "", fmt.Errorf("encoding election data for %d: %w", year, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing election data for %d: %w", year, err)
	}

	slog.Info("exported election data",
		"year", year, "counties", len(byFIPS),
		"size_kb", fmt.Sprintf("%.1f", float64(len(data))/1024))
	return path, nil
}

// Manifest describes the exported bundle for the frontend loader.
type Manifest struct {
	Generated      string                  `json:"generated"`
	Geometry       ManifestFile            `json:"geometry"`
	Elections      map[string]ManifestFile `json:"elections"`
	AvailableYears []int                   `json:"available_years"`
	Summary        ManifestSummary         `json:"summary"`
}

// ManifestFile is one file entry in the manifest.
type ManifestFile struct {
	Path   string  `json:"path"`
	SizeMB float64 `json:"size_mb"`
}

// ManifestSummary totals the bundle.
type ManifestSummary struct {
	TotalYears           int     `json:"total_years"`
	GeometrySizeMB       float64 `json:"geometry_size_mb"`
	TotalElectionDataMB  float64 `json:"total_election_data_mb"`
	EstimatedTotalLoadMB float64 `json:"estimated_total_load_mb"`
}

// WriteManifest describes the geometry file and every per-year election
// file, with sizes, and writes manifest.json in the output directory.
func WriteManifest(outDir, geometryPath string, electionPaths map[int]string, generated string) (string, error) {
	manifest := Manifest{
		Generated: generated,
		Elections: make(map[string]ManifestFile, len(electionPaths)),
	}

	geomMB, err := fileSizeMB(geometryPath)
	if err != nil {
		return "", err
	}
	manifest.Geometry = ManifestFile{Path: relTo(outDir, geometryPath), SizeMB: geomMB}

	var electionMB float64
	years := make([]int, 0, len(electionPaths))
	for year := range electionPaths {
		years = append(years, year)
	}
	sort.Ints(years)
	for _, year := range years {
		sizeMB, err := fileSizeMB(electionPaths[year])
		if err != nil {
			return "", err
		}
		manifest.Elections[fmt.Sprintf("%d", year)] = ManifestFile{
			Path:   relTo(outDir, electionPaths[year]),
			SizeMB: sizeMB,
		}
		electionMB += sizeMB
		manifest.AvailableYears = append(manifest.AvailableYears, year)
	}

	manifest.Summary = ManifestSummary{
		TotalYears:           len(years),
		GeometrySizeMB:       geomMB,
		TotalElectionDataMB:  roundMB(electionMB),
		EstimatedTotalLoadMB: roundMB(geomMB + electionMB),
	}

	path := filepath.Join(outDir, "manifest.json")
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}

	slog.Info("exported manifest",
		"years", len(years),
		"geometry_mb", geomMB,
		"election_data_mb", manifest.Summary.TotalElectionDataMB)
	return path, nil
}

// Validate checks that every expected bundle file exists; missing paths
// come back rather than failing fast so the operator sees all of them.
func Validate(outDir string, years []int) []string {
	var missing []string
	check := func(rel string) {
		if _, err := os.Stat(filepath.Join(outDir, rel)); err != nil {
			missing = append(missing, rel)
			slog.Warn("missing export file", "file", rel)
		}
	}

	check("counties.geojson")
	for _, year := range years {
		check(fmt.Sprintf("elections_%d.json", year))
	}
	check("manifest.json")

	if len(missing) == 0 {
		slog.Info("export bundle complete", "years", len(years))
	}
	return missing
}

func fileSizeMB(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("sizing %s: %w", path, err)
	}
	return roundMB(float64(info.Size()) / 1024 / 1024), nil
}

func roundMB(mb float64) float64 {
	return math.Round(mb*100) / 100
}

func relTo(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return path
	}
	return rel
}
