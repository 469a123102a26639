package aggregate

import (
	"reflect"
	"testing"

	"github.com/kaelinwanghu/swingvisualizer/internal/model"
	"github.com/kaelinwanghu/swingvisualizer/internal/normalize"
)

func TestCleanFIPS(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "already clean", input: "01001", want: "01001", wantOK: true},
		{name: "spreadsheet float artifact", input: "1001.0", want: "01001", wantOK: true},
		{name: "short code zero padded", input: "1001", want: "01001", wantOK: true},
		{name: "single digit", input: "1", want: "00001", wantOK: true},
		{name: "whitespace trimmed", input: " 01001 ", want: "01001", wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "non-numeric", input: "abcde", want: "abcde", wantOK: false},
		{name: "too long", input: "123456", want: "123456", wantOK: false},
		{name: "nan artifact", input: "NA", want: "000NA", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanFIPS(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("CleanFIPS(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("CleanFIPS(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func testAggregator() *Aggregator {
	return New(normalize.NewPartyNormalizer(normalize.DefaultPartySynonyms()), 10)
}

func votes(v int64) *int64 { return &v }

func returnRow(year int, fips, county, party string, candidate, total int64) model.CountyReturn {
	return model.CountyReturn{
		Year:           year,
		State:          "ALABAMA",
		StatePO:        "AL",
		CountyName:     county,
		CountyFIPS:     fips,
		Party:          party,
		CandidateVotes: votes(candidate),
		TotalVotes:     total,
	}
}

func TestAggregateCycle(t *testing.T) {
	rows := []model.CountyReturn{
		returnRow(2020, "1001.0", "AUTAUGA", "DEMOCRAT", 7503, 27770),
		returnRow(2020, "1001.0", "AUTAUGA", "REPUBLICAN", 19838, 27770),
		returnRow(2020, "1001.0", "AUTAUGA", "LIBERTARIAN", 350, 27770),
		returnRow(2020, "1001.0", "AUTAUGA", "INDEPENDENT", 79, 27770),
		returnRow(2020, "01003", "BALDWIN", "DEMOCRAT", 24578, 109679),
		returnRow(2020, "01003", "BALDWIN", "REPUBLICAN", 83544, 109679),
		// Different year must be ignored entirely.
		returnRow(2016, "01003", "BALDWIN", "DEMOCRAT", 18409, 95215),
		// Invalid FIPS dropped.
		returnRow(2020, "", "UNKNOWN", "DEMOCRAT", 10, 100),
	}

	results, stats := testAggregator().AggregateCycle(rows, 2020)

	if stats.Counties != 2 {
		t.Fatalf("expected 2 counties, got %d", stats.Counties)
	}
	if stats.InvalidFIPS != 1 {
		t.Errorf("InvalidFIPS = %d, want 1", stats.InvalidFIPS)
	}

	autauga := results[0]
	if autauga.FIPS != "01001" {
		t.Fatalf("results not sorted by FIPS, first = %s", autauga.FIPS)
	}
	if autauga.Democrat != 7503 || autauga.Republican != 19838 {
		t.Errorf("major party votes = %d/%d", autauga.Democrat, autauga.Republican)
	}
	if autauga.Libertarian != 350 {
		t.Errorf("Libertarian = %d, want 350", autauga.Libertarian)
	}
	// INDEPENDENT folds into OTHER.
	if autauga.Other != 79 {
		t.Errorf("Other = %d, want 79", autauga.Other)
	}
	if autauga.MajorPartyVotes != 27341 {
		t.Errorf("MajorPartyVotes = %d, want 27341", autauga.MajorPartyVotes)
	}
	if autauga.DemShare != 27.44 || autauga.RepShare != 72.56 {
		t.Errorf("shares = %.2f/%.2f, want 27.44/72.56", autauga.DemShare, autauga.RepShare)
	}
	if autauga.Margin != -45.12 {
		t.Errorf("Margin = %.2f, want -45.12", autauga.Margin)
	}
	if autauga.Winner != model.PartyRepublican {
		t.Errorf("Winner = %s, want REPUBLICAN", autauga.Winner)
	}
}

func TestAggregateCycle_TieGoesRepublican(t *testing.T) {
	rows := []model.CountyReturn{
		returnRow(2020, "01001", "AUTAUGA", "DEMOCRAT", 500, 1000),
		returnRow(2020, "01001", "AUTAUGA", "REPUBLICAN", 500, 1000),
	}

	results, _ := testAggregator().AggregateCycle(rows, 2020)
	if results[0].Winner != model.PartyRepublican {
		t.Errorf("exact tie should go REPUBLICAN, got %s", results[0].Winner)
	}
	if results[0].DemShare != 50 || results[0].RepShare != 50 {
		t.Errorf("tie shares = %.2f/%.2f, want 50/50", results[0].DemShare, results[0].RepShare)
	}
}

func TestAggregateCycle_ZeroMajorVotes(t *testing.T) {
	rows := []model.CountyReturn{
		returnRow(2020, "01001", "AUTAUGA", "LIBERTARIAN", 42, 42),
	}

	results, _ := testAggregator().AggregateCycle(rows, 2020)
	r := results[0]
	if r.DemShare != 0 || r.RepShare != 0 || r.Margin != 0 {
		t.Errorf("zero major votes should yield zero shares, got %.2f/%.2f/%.2f",
			r.DemShare, r.RepShare, r.Margin)
	}
}

func TestAggregateCycle_Idempotent(t *testing.T) {
	rows := []model.CountyReturn{
		returnRow(2020, "01003", "BALDWIN", "DEMOCRAT", 24578, 109679),
		returnRow(2020, "01003", "BALDWIN", "REPUBLICAN", 83544, 109679),
		returnRow(2020, "01001", "AUTAUGA", "DEMOCRAT", 7503, 27770),
		returnRow(2020, "01001", "AUTAUGA", "REPUBLICAN", 19838, 27770),
	}

	a := testAggregator()
	first, _ := a.AggregateCycle(rows, 2020)
	second, _ := a.AggregateCycle(rows, 2020)
	if !reflect.DeepEqual(first, second) {
		t.Error("aggregation is not deterministic for identical input")
	}
}

func TestAggregateCycle_LowTurnoutFlagged(t *testing.T) {
	rows := []model.CountyReturn{
		returnRow(2020, "01001", "AUTAUGA", "DEMOCRAT", 3, 7),
		returnRow(2020, "01001", "AUTAUGA", "REPUBLICAN", 4, 7),
	}

	_, stats := testAggregator().AggregateCycle(rows, 2020)
	if stats.LowTurnout != 1 {
		t.Errorf("LowTurnout = %d, want 1", stats.LowTurnout)
	}
}
