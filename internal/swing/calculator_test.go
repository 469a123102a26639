package swing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaelinwanghu/swingvisualizer/internal/match"
	"github.com/kaelinwanghu/swingvisualizer/internal/model"
	"github.com/kaelinwanghu/swingvisualizer/internal/normalize"
)

func testCalculator() *Calculator {
	names := normalize.NewNameNormalizer(normalize.DefaultNameConfig())
	return NewCalculator(match.NewMatcher(names))
}

func result(fips, county string, demShare, repShare float64, dem, rep, total int64) model.CountyResult {
	winner := model.ComputeWinner(dem, rep)
	return model.CountyResult{
		FIPS:       fips,
		County:     county,
		State:      "ALABAMA",
		StatePO:    "AL",
		DemShare:   demShare,
		RepShare:   repShare,
		Democrat:   dem,
		Republican: rep,
		TotalVotes: total,
		Winner:     winner,
	}
}

func TestCalculate_SwingFields(t *testing.T) {
	y1 := []model.CountyResult{result("01001", "AUTAUGA", 45.0, 55.0, 4500, 5500, 10000)}
	y2 := []model.CountyResult{result("01001", "AUTAUGA", 52.0, 48.0, 6240, 5760, 12000)}

	records, err := testCalculator().Calculate(y1, y2, 2016, 2020)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.InDelta(t, 7.0, r.Swing, 1e-9)
	assert.InDelta(t, 7.0, r.SwingMagnitude, 1e-9)
	// margin moves from -10 to +4.
	assert.InDelta(t, 14.0, r.MarginChange, 1e-9)
	assert.Equal(t, model.SwingTowardDem, r.SwingDirection)

	assert.True(t, r.Flipped)
	assert.Equal(t, "REPUBLICAN_to_DEMOCRAT", r.FlipDirection)

	assert.Equal(t, int64(2000), r.TurnoutChange)
	require.NotNil(t, r.TurnoutChangePct)
	assert.InDelta(t, 20.0, *r.TurnoutChangePct, 1e-9)

	assert.Equal(t, 2016, r.Year1)
	assert.Equal(t, 2020, r.Year2)
	assert.Equal(t, "2016_2020", r.Period)
}

func TestCalculate_ZeroYear1TurnoutYieldsNil(t *testing.T) {
	y1 := []model.CountyResult{result("12345", "SOMEWHERE", 0, 0, 0, 0, 0)}
	y2 := []model.CountyResult{result("12345", "SOMEWHERE", 60, 40, 600, 400, 1000)}

	records, err := testCalculator().Calculate(y1, y2, 2016, 2020)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Nil(t, records[0].TurnoutChangePct, "zero year1 turnout must be null, not inf")
	assert.Equal(t, int64(1000), records[0].TurnoutChange)
}

func TestCalculate_NoFlipNoSwing(t *testing.T) {
	y1 := []model.CountyResult{result("01001", "AUTAUGA", 40, 60, 400, 600, 1000)}
	y2 := []model.CountyResult{result("01001", "AUTAUGA", 40, 60, 440, 660, 1100)}

	records, err := testCalculator().Calculate(y1, y2, 2016, 2020)
	require.NoError(t, err)

	r := records[0]
	assert.Zero(t, r.Swing)
	assert.Equal(t, model.SwingNoChange, r.SwingDirection)
	assert.False(t, r.Flipped)
	assert.Equal(t, model.NoFlip, r.FlipDirection)
}

func TestCalculate_InnerJoinDropsUnmatched(t *testing.T) {
	y1 := []model.CountyResult{
		result("01001", "AUTAUGA", 45, 55, 450, 550, 1000),
		result("01003", "BALDWIN", 30, 70, 300, 700, 1000),
	}
	y2 := []model.CountyResult{
		result("01001", "AUTAUGA", 46, 54, 460, 540, 1000),
	}

	records, err := testCalculator().Calculate(y1, y2, 2016, 2020)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "01001", records[0].FIPS)
}

func TestCalculate_DuplicateFIPSKeepsFirst(t *testing.T) {
	y1 := []model.CountyResult{
		result("01001", "AUTAUGA", 45, 55, 450, 550, 1000),
		result("01001", "AUTAUGA DUPE", 99, 1, 990, 10, 1000),
	}
	y2 := []model.CountyResult{result("01001", "AUTAUGA", 46, 54, 460, 540, 1000)}

	records, err := testCalculator().Calculate(y1, y2, 2016, 2020)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.InDelta(t, 1.0, records[0].Swing, 1e-9)
	assert.Equal(t, "AUTAUGA", records[0].County)
}

func TestCalculate_SortedByFIPS(t *testing.T) {
	y1 := []model.CountyResult{
		result("01003", "BALDWIN", 30, 70, 300, 700, 1000),
		result("01001", "AUTAUGA", 45, 55, 450, 550, 1000),
	}
	y2 := []model.CountyResult{
		result("01003", "BALDWIN", 31, 69, 310, 690, 1000),
		result("01001", "AUTAUGA", 46, 54, 460, 540, 1000),
	}

	records, err := testCalculator().Calculate(y1, y2, 2016, 2020)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "01001", records[0].FIPS)
	assert.Equal(t, "01003", records[1].FIPS)
}

func TestAnalyze(t *testing.T) {
	pct := func(v float64) *float64 { return &v }
	records := []model.SwingRecord{
		{FIPS: "01001", Swing: 4, WinnerY1: model.PartyRepublican, WinnerY2: model.PartyDemocrat, Flipped: true, TurnoutChangePct: pct(10)},
		{FIPS: "01003", Swing: -2, WinnerY1: model.PartyRepublican, WinnerY2: model.PartyRepublican},
		{FIPS: "01005", Swing: 1, WinnerY1: model.PartyDemocrat, WinnerY2: model.PartyRepublican, Flipped: true, TurnoutChangePct: pct(20)},
	}

	summary := Analyze(records, 2016, 2020)

	assert.Equal(t, 3, summary.TotalCounties)
	assert.InDelta(t, 1.0, summary.AvgSwing, 1e-9)
	assert.InDelta(t, 1.0, summary.MedianSwing, 1e-9)
	assert.InDelta(t, 4.0, summary.MaxDemSwing, 1e-9)
	assert.InDelta(t, -2.0, summary.MaxRepSwing, 1e-9)
	assert.Equal(t, 2, summary.CountiesSwingDem)
	assert.Equal(t, 1, summary.CountiesSwingRep)
	assert.Equal(t, 2, summary.TotalFlips)
	assert.Equal(t, 1, summary.RepToDem)
	assert.Equal(t, 1, summary.DemToRep)
	// Mean turnout change ignores the record with no percentage.
	require.NotNil(t, summary.AvgTurnoutChangePct)
	assert.InDelta(t, 15.0, *summary.AvgTurnoutChangePct, 1e-9)
}

func TestAnalyze_Empty(t *testing.T) {
	summary := Analyze(nil, 2016, 2020)
	assert.Equal(t, 0, summary.TotalCounties)
	assert.Nil(t, summary.AvgTurnoutChangePct)
}

func TestAggregateVolatility(t *testing.T) {
	pairs := [][]model.SwingRecord{
		{
			{FIPS: "01001", County: "AUTAUGA", State: "ALABAMA", SwingMagnitude: 2, Flipped: false},
			{FIPS: "01003", County: "BALDWIN", State: "ALABAMA", SwingMagnitude: 10, Flipped: true},
		},
		{
			{FIPS: "01001", County: "AUTAUGA", State: "ALABAMA", SwingMagnitude: 4, Flipped: true},
		},
	}

	records := AggregateVolatility(pairs)
	require.Len(t, records, 2)

	// Sorted most volatile first.
	assert.Equal(t, "01003", records[0].FIPS)
	assert.Equal(t, 1, records[0].Appearances)
	assert.InDelta(t, 10.0, records[0].AvgSwingMagnitude, 1e-9)

	assert.Equal(t, "01001", records[1].FIPS)
	assert.Equal(t, 2, records[1].Appearances)
	assert.Equal(t, 1, records[1].TotalFlips)
	assert.InDelta(t, 3.0, records[1].AvgSwingMagnitude, 1e-9)
}
