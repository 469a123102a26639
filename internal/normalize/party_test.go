package normalize

import (
	"testing"

	"github.com/kaelinwanghu/swingvisualizer/internal/model"
)

func TestPartyNormalizer_Normalize(t *testing.T) {
	n := NewPartyNormalizer(DefaultPartySynonyms())

	tests := []struct {
		name  string
		input string
		want  model.Party
	}{
		{name: "canonical democrat", input: "DEMOCRAT", want: model.PartyDemocrat},
		{name: "democratic variant", input: "DEMOCRATIC", want: model.PartyDemocrat},
		{name: "dfl variant", input: "DEMOCRATIC-FARMER-LABOR", want: model.PartyDemocrat},
		{name: "lowercase", input: "republican", want: model.PartyRepublican},
		{name: "whitespace trimmed", input: "  GREEN  ", want: model.PartyGreen},
		{name: "libertarian short", input: "LIB", want: model.PartyLibertarian},
		{name: "independent", input: "INDEPENDENT", want: model.PartyIndependent},
		{name: "unknown maps to other", input: "CONSTITUTION PARTY", want: model.PartyOther},
		{name: "empty maps to other", input: "", want: model.PartyOther},
		{name: "write-in", input: "WRITE-IN", want: model.PartyOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanVotes(t *testing.T) {
	votes := func(v int64) *int64 { return &v }

	rows := []model.CountyReturn{
		{CountyFIPS: "01001", Party: "DEMOCRAT", CandidateVotes: votes(100)},
		{CountyFIPS: "01001", Party: "REPUBLICAN", CandidateVotes: nil},
		{CountyFIPS: "01003", Party: "DEMOCRAT", CandidateVotes: votes(-5)},
		{CountyFIPS: "01003", Party: "REPUBLICAN", CandidateVotes: votes(0)},
	}

	cleaned, stats := CleanVotes(rows)

	if len(cleaned) != 3 {
		t.Fatalf("expected 3 surviving rows, got %d", len(cleaned))
	}
	if stats.MissingFilled != 1 {
		t.Errorf("MissingFilled = %d, want 1", stats.MissingFilled)
	}
	if stats.NegativeDropped != 1 {
		t.Errorf("NegativeDropped = %d, want 1", stats.NegativeDropped)
	}
	if *cleaned[1].CandidateVotes != 0 {
		t.Errorf("missing votes should fill as 0, got %d", *cleaned[1].CandidateVotes)
	}
}
