// Package geo wraps the county boundary GeoJSON: property standardization,
// identifier cleanup, geometry validation and simplification, and the
// left-join that attaches tabular election data to features.
package geo

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"

	"github.com/kaelinwanghu/swingvisualizer/internal/aggregate"
)

// SquareMetersPerSquareMile converts Census ALAND/AWATER values.
const SquareMetersPerSquareMile = 2589988.11

// BoundarySet is a county boundary FeatureCollection with standardized
// properties. Features are keyed by the "fips" property after Standardize.
type BoundarySet struct {
	fc *geojson.FeatureCollection
}

// Load reads a GeoJSON FeatureCollection. Input is assumed WGS84; there is
// no reprojection here.
func Load(path string) (*BoundarySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading boundaries: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing boundaries %s: %w", path, err)
	}
	return &BoundarySet{fc: fc}, nil
}

// New wraps an existing FeatureCollection.
func New(fc *geojson.FeatureCollection) *BoundarySet {
	return &BoundarySet{fc: fc}
}

// Count is the number of features in the set.
func (b *BoundarySet) Count() int {
	return len(b.fc.Features)
}

// Features exposes the underlying features for iteration.
func (b *BoundarySet) Features() []*geojson.Feature {
	return b.fc.Features
}

// FeatureCollection exposes the wrapped collection for export.
func (b *BoundarySet) FeatureCollection() *geojson.FeatureCollection {
	return b.fc
}

// Stats reports what standardization and validation did to the set.
type Stats struct {
	Features       int
	InvalidFIPS    int
	DuplicateFIPS  int
	EmptyGeometry  int
	MissingCenters int
}

// censusRenames maps raw TIGER/Line property names to the standardized
// vocabulary the rest of the pipeline speaks.
var censusRenames = map[string]string{
	"GEOID":    "fips",
	"NAME":     "county_name",
	"NAMELSAD": "county_full_name",
	"STATEFP":  "state_fips",
	"COUNTYFP": "county_fips",
	"ALAND":    "land_area_sqm",
	"AWATER":   "water_area_sqm",
	"INTPTLAT": "latitude",
	"INTPTLON": "longitude",
}

// Standardize renames Census properties, derives square-mile areas, parses
// interior-point coordinates, and cleans FIPS codes. Features with invalid
// identifiers or empty geometry are dropped and counted; duplicates are
// counted but kept, matching the source data's occasional multi-part rows.
func (b *BoundarySet) Standardize() Stats {
	stats := Stats{}
	seen := make(map[string]bool, len(b.fc.Features))
	kept := b.fc.Features[:0]

	for _, f := range b.fc.Features {
		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}
		for raw, std := range censusRenames {
			if v, ok := f.Properties[raw]; ok {
				f.Properties[std] = v
				delete(f.Properties, raw)
			}
		}

		fips, ok := aggregate.CleanFIPS(asString(f.Properties["fips"]))
		if !ok {
			stats.InvalidFIPS++
			continue
		}
		f.Properties["fips"] = fips

		if f.Geometry == nil || emptyGeometry(f.Geometry) {
			stats.EmptyGeometry++
			continue
		}

		if seen[fips] {
			stats.DuplicateFIPS++
		}
		seen[fips] = true

		if sqm, ok := asFloat(f.Properties["land_area_sqm"]); ok {
			f.Properties["land_area_sqmi"] = round2(sqm / SquareMetersPerSquareMile)
		}
		if sqm, ok := asFloat(f.Properties["water_area_sqm"]); ok {
			f.Properties["water_area_sqmi"] = round2(sqm / SquareMetersPerSquareMile)
		}

		lat, latOK := asFloat(f.Properties["latitude"])
		lon, lonOK := asFloat(f.Properties["longitude"])
		if !latOK || !lonOK {
			// TIGER interior points are occasionally blank; fall back to
			// the polygon centroid.
			centroid, _ := planar.CentroidArea(f.Geometry)
			lat, lon = centroid.Lat(), centroid.Lon()
			stats.MissingCenters++
		}
		f.Properties["latitude"] = lat
		f.Properties["longitude"] = lon

		kept = append(kept, f)
	}

	b.fc.Features = kept
	stats.Features = len(kept)

	if stats.InvalidFIPS > 0 {
		slog.Warn("dropped boundaries with invalid FIPS codes", "count", stats.InvalidFIPS)
	}
	if stats.DuplicateFIPS > 0 {
		slog.Warn("duplicate FIPS codes among boundaries", "count", stats.DuplicateFIPS)
	}
	if stats.EmptyGeometry > 0 {
		slog.Warn("dropped boundaries with empty geometry", "count", stats.EmptyGeometry)
	}
	return stats
}

// Simplify reduces geometry detail with Douglas-Peucker at the given
// tolerance (degrees).
func (b *BoundarySet) Simplify(tolerance float64) {
	s := simplify.DouglasPeucker(tolerance)
	for _, f := range b.fc.Features {
		if f.Geometry == nil {
			continue
		}
		f.Geometry = s.Simplify(f.Geometry)
	}
	slog.Info("simplified geometries", "tolerance", tolerance, "features", len(b.fc.Features))
}

// Bound is the union bounding box of every feature.
func (b *BoundarySet) Bound() orb.Bound {
	var bound orb.Bound
	for i, f := range b.fc.Features {
		if f.Geometry == nil {
			continue
		}
		if i == 0 {
			bound = f.Geometry.Bound()
			continue
		}
		bound = bound.Union(f.Geometry.Bound())
	}
	return bound
}

// TableRow is the tabular projection of one boundary feature.
type TableRow struct {
	FIPS          string
	CountyName    string
	LandAreaSqMi  float64
	WaterAreaSqMi float64
	Latitude      float64
	Longitude     float64
}

// Table projects the set into rows sorted by FIPS.
func (b *BoundarySet) Table() []TableRow {
	rows := make([]TableRow, 0, len(b.fc.Features))
	for _, f := range b.fc.Features {
		row := TableRow{
			FIPS:       asString(f.Properties["fips"]),
			CountyName: asString(f.Properties["county_name"]),
		}
		row.LandAreaSqMi, _ = asFloat(f.Properties["land_area_sqmi"])
		row.WaterAreaSqMi, _ = asFloat(f.Properties["water_area_sqmi"])
		row.Latitude, _ = asFloat(f.Properties["latitude"])
		row.Longitude, _ = asFloat(f.Properties["longitude"])
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].FIPS < rows[j].FIPS })
	return rows
}

// MergeStats reports a MergeLeft outcome.
type MergeStats struct {
	Matched        int
	UnmatchedGeo   int
	UnmatchedTable int
}

// MergeLeft left-joins tabular data into feature properties by FIPS. Every
// feature survives; features without a table row simply gain no columns,
// and table rows without a feature are counted but never invent geometry.
func (b *BoundarySet) MergeLeft(rows map[string]map[string]interface{}) MergeStats {
	stats := MergeStats{}
	used := make(map[string]bool, len(rows))

	for _, f := range b.fc.Features {
		fips := asString(f.Properties["fips"])
		row, ok := rows[fips]
		if !ok {
			stats.UnmatchedGeo++
			continue
		}
		for k, v := range row {
			f.Properties[k] = v
		}
		used[fips] = true
		stats.Matched++
	}
	stats.UnmatchedTable = len(rows) - len(used)

	if stats.UnmatchedGeo > 0 {
		slog.Warn("counties in geography but not in tabular data", "count", stats.UnmatchedGeo)
	}
	if stats.UnmatchedTable > 0 {
		slog.Warn("counties in tabular data but not in geography", "count", stats.UnmatchedTable)
	}
	return stats
}

// Save writes the set as GeoJSON.
func (b *BoundarySet) Save(path string) error {
	data, err := b.fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding boundaries: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing boundaries: %w", err)
	}
	return nil
}

func emptyGeometry(g orb.Geometry) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return len(geom) == 0 || len(geom[0]) == 0
	case orb.MultiPolygon:
		return len(geom) == 0
	case orb.LineString:
		return len(geom) == 0
	case orb.MultiLineString:
		return len(geom) == 0
	case orb.MultiPoint:
		return len(geom) == 0
	default:
		return false
	}
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
