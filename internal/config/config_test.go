package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaelinwanghu/swingvisualizer/internal/common"
)

func TestLoad(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("data.dir", "elsewhere")
	p, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", p.DataDir)

	viper.Set("data.dir", "")
	_, err = Load()
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestValidYear(t *testing.T) {
	for _, year := range ElectionYears {
		assert.True(t, ValidYear(year), "year %d", year)
	}
	assert.False(t, ValidYear(1996))
	assert.False(t, ValidYear(2002))
	assert.False(t, ValidYear(0))
}

func TestAdjacentPairs(t *testing.T) {
	pairs := AdjacentPairs()
	require.Len(t, pairs, len(ElectionYears)-1)
	assert.Equal(t, [2]int{2000, 2004}, pairs[0])
	assert.Equal(t, [2]int{2020, 2024}, pairs[len(pairs)-1])
	for _, pair := range pairs {
		assert.Equal(t, pair[0]+4, pair[1])
	}
}

func TestCheckNationalWinners(t *testing.T) {
	require.NoError(t, CheckNationalWinners())
	// Every supported cycle must have an entry or bellwether scores
	// silently drop cycles.
	for _, year := range ElectionYears {
		_, ok := NationalWinners[year]
		assert.True(t, ok, "missing national winner for %d", year)
	}
}

func TestPaths(t *testing.T) {
	p := Paths{DataDir: "data"}

	assert.Equal(t, filepath.Join("data", "processed", "elections", "elections_2020.csv"), p.ElectionFile(2020))
	assert.Equal(t, filepath.Join("data", "processed", "combined", "swings_2016_to_2020.csv"), p.SwingFile(2016, 2020))
	assert.Equal(t, filepath.Join("data", "processed", "combined", "election_map_2024.geojson"), p.CombinedFile(2024))
	assert.Equal(t, filepath.Join("data", "processed", "geojson", "counties.geojson"), p.CountiesGeoJSON())
	assert.Equal(t, filepath.Join("data", "processed", "combined", "bellwether_counties.csv"), p.BellwetherFile())
}

func TestEnsureDirs(t *testing.T) {
	p := Paths{DataDir: t.TempDir()}
	require.NoError(t, p.EnsureDirs())

	for _, dir := range []string{p.RawDir(), p.ElectionsDir(), p.GeoJSONDir(), p.CombinedDir(), p.ExportsDir()} {
		assert.DirExists(t, dir)
	}
}
