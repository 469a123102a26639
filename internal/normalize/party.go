// Package normalize canonicalizes raw party labels, vote counts, and
// county/state names. All lookup tables are immutable configuration passed
// in at construction so tests can swap them.
package normalize

import (
	"strings"

	"github.com/kaelinwanghu/swingvisualizer/internal/model"
)

// DefaultPartySynonyms maps the party label variants seen in MIT data to
// the canonical taxonomy. Matching is case-insensitive.
func DefaultPartySynonyms() map[string]model.Party {
	return map[string]model.Party{
		"DEMOCRAT":                 model.PartyDemocrat,
		"DEMOCRATIC":               model.PartyDemocrat,
		"DEMOCRATIC-FARMER-LABOR":  model.PartyDemocrat,
		"DEM":                      model.PartyDemocrat,
		"D":                        model.PartyDemocrat,
		"REPUBLICAN":               model.PartyRepublican,
		"REP":                      model.PartyRepublican,
		"R":                        model.PartyRepublican,
		"LIBERTARIAN":              model.PartyLibertarian,
		"LIB":                      model.PartyLibertarian,
		"GREEN":                    model.PartyGreen,
		"GREEN PARTY":              model.PartyGreen,
		"INDEPENDENT":              model.PartyIndependent,
		"IND":                      model.PartyIndependent,
		"OTHER":                    model.PartyOther,
		"WRITE-IN":                 model.PartyOther,
		"WRITEIN":                  model.PartyOther,
	}
}

// PartyNormalizer maps free-text party labels to the canonical taxonomy.
type PartyNormalizer struct {
	synonyms map[string]model.Party
}

// NewPartyNormalizer creates a PartyNormalizer from a synonym table.
func NewPartyNormalizer(synonyms map[string]model.Party) *PartyNormalizer {
	table := make(map[string]model.Party, len(synonyms))
	for k, v := range synonyms {
		table[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return &PartyNormalizer{synonyms: table}
}

// Normalize maps a raw label to a canonical party. Unknown or empty labels
// map to OTHER; this is a total function with no rejection path.
func (n *PartyNormalizer) Normalize(raw string) model.Party {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if key == "" {
		return model.PartyOther
	}
	if party, ok := n.synonyms[key]; ok {
		return party
	}
	return model.PartyOther
}

// VoteStats reports how many rows vote cleaning touched.
type VoteStats struct {
	MissingFilled   int
	NegativeDropped int
}

// CleanVotes repairs candidate vote counts in place of the raw rows:
// missing counts become 0, rows with negative counts are removed entirely.
func CleanVotes(rows []model.CountyReturn) ([]model.CountyReturn, VoteStats) {
	var stats VoteStats
	cleaned := make([]model.CountyReturn, 0, len(rows))
	for _, row := range rows {
		if row.CandidateVotes == nil {
			zero := int64(0)
			row.CandidateVotes = &zero
			stats.MissingFilled++
		}
		if *row.CandidateVotes < 0 {
			stats.NegativeDropped++
			continue
		}
		cleaned = append(cleaned, row)
	}
	return cleaned, stats
}
