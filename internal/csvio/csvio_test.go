package csvio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaelinwanghu/swingvisualizer/internal/common"
	"github.com/kaelinwanghu/swingvisualizer/internal/config"
	"github.com/kaelinwanghu/swingvisualizer/internal/model"
)

func testPaths(t *testing.T) config.Paths {
	t.Helper()
	return config.Paths{DataDir: t.TempDir()}
}

func TestElectionRoundTrip(t *testing.T) {
	paths := testPaths(t)

	in := []model.CountyResult{
		{
			FIPS: "01001", State: "ALABAMA", StatePO: "AL", County: "AUTAUGA",
			TotalVotes: 27770, Democrat: 7503, Republican: 19838,
			MajorPartyVotes: 27341, DemShare: 27.44, RepShare: 72.56,
			Margin: -45.12, Winner: model.PartyRepublican,
		},
		{
			FIPS: "01003", State: "ALABAMA", StatePO: "AL", County: "BALDWIN",
			TotalVotes: 109679, Democrat: 24578, Republican: 83544,
			MajorPartyVotes: 108122, DemShare: 22.73, RepShare: 77.27,
			Margin: -54.54, Winner: model.PartyRepublican,
		},
	}
	require.NoError(t, WriteElection(paths, 2020, in))

	out, err := LoadElection(paths, 2020)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSwingRoundTrip_NilTurnoutPct(t *testing.T) {
	paths := testPaths(t)
	pct := 12.5

	in := []model.SwingRecord{
		{FIPS: "01001", County: "AUTAUGA", State: "ALABAMA", Swing: 7, TurnoutChangePct: &pct,
			WinnerY1: model.PartyRepublican, WinnerY2: model.PartyRepublican,
			SwingDirection: model.SwingTowardDem, FlipDirection: model.NoFlip,
			Year1: 2016, Year2: 2020, Period: "2016_2020"},
		{FIPS: "12345", County: "SOMEWHERE", State: "FLORIDA", Swing: -1, TurnoutChangePct: nil,
			WinnerY1: model.PartyRepublican, WinnerY2: model.PartyRepublican,
			SwingDirection: model.SwingTowardRep, FlipDirection: model.NoFlip,
			Year1: 2016, Year2: 2020, Period: "2016_2020"},
	}
	require.NoError(t, WriteSwings(paths, 2016, 2020, in))

	out, err := LoadSwings(paths, 2016, 2020)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].TurnoutChangePct)
	assert.InDelta(t, 12.5, *out[0].TurnoutChangePct, 1e-9)
	assert.Nil(t, out[1].TurnoutChangePct, "empty cell must stay null")
}

func TestLoadElection_MissingNamesProducingStage(t *testing.T) {
	paths := testPaths(t)

	_, err := LoadElection(paths, 2020)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingInput)
	assert.Contains(t, err.Error(), "clean")
	assert.Contains(t, err.Error(), paths.ElectionFile(2020))
}

func TestDiscoverRawReturns(t *testing.T) {
	dir := t.TempDir()

	_, err := DiscoverRawReturns(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingInput)

	for _, name := range []string{"countypres_2000-2020.csv", "countypres_2000-2024.csv", "unrelated.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("year\n"), 0o644))
	}

	path, err := DiscoverRawReturns(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "countypres_2000-2024.csv"), path)
}

func TestFlattenTrend(t *testing.T) {
	full := model.TrendRecord{
		FIPS: "01001", County: "AUTAUGA", State: "ALABAMA",
		Classification: model.SolidRep, CyclesWithData: 7, FirstCycle: 2000, LastCycle: 2024,
		Metrics: &model.TrendMetrics{
			AvgMargin: -28, MarginStdDev: 2.24, FlipRate: 0,
			BellwetherScore: 25, TrajectoryDirection: model.Stable,
		},
	}
	row := FlattenTrend(full)
	assert.Equal(t, "SOLID_REP", row.Classification)
	require.NotNil(t, row.AvgMargin)
	assert.InDelta(t, -28.0, *row.AvgMargin, 1e-9)
	assert.Equal(t, "STABLE", row.TrajectoryDirection)

	sparse := model.TrendRecord{
		FIPS: "01003", Classification: model.InsufficientData, CyclesWithData: 2,
	}
	row = FlattenTrend(sparse)
	assert.Equal(t, "INSUFFICIENT_DATA", row.Classification)
	assert.Nil(t, row.AvgMargin, "missing metrics must serialize as empty cells")
	assert.Nil(t, row.BellwetherScore)
	assert.Empty(t, row.TrajectoryDirection)
}

func TestWriteClassificationsRoundTrip(t *testing.T) {
	paths := testPaths(t)

	records := []model.TrendRecord{
		{FIPS: "01001", County: "AUTAUGA", State: "ALABAMA",
			Classification: model.SolidRep, CyclesWithData: 7, FirstCycle: 2000, LastCycle: 2024,
			Metrics: &model.TrendMetrics{AvgMargin: -28, BellwetherScore: 25}},
		{FIPS: "01003", Classification: model.InsufficientData, CyclesWithData: 2},
	}
	require.NoError(t, WriteClassifications(paths, records))

	rows, err := ReadAll[ClassificationRow](paths.ClassificationsFile())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SOLID_REP", rows[0].Classification)
	assert.Nil(t, rows[1].AvgMargin)
}
