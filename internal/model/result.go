package model

// CountyReturn is one raw long-form row from the MIT Election Lab file:
// one county, one candidate, one cycle. FIPS may be malformed and votes
// may be missing; both are repaired downstream.
type CountyReturn struct {
	CandidateVotes *int64 `csv:"candidatevotes"`
	State          string `csv:"state"`
	StatePO        string `csv:"state_po"`
	CountyName     string `csv:"county_name"`
	CountyFIPS     string `csv:"county_fips"`
	Party          string `csv:"party"`
	Year           int    `csv:"year"`
	TotalVotes     int64  `csv:"totalvotes"`
}

// CountyResult is the aggregated wide-form row: one county, one cycle,
// one column per canonical party. Immutable once produced; later stages
// enrich copies via left joins rather than mutating it.
type CountyResult struct {
	FIPS            string  `csv:"fips"`
	State           string  `csv:"state"`
	StatePO         string  `csv:"state_po"`
	County          string  `csv:"county"`
	TotalVotes      int64   `csv:"total_votes"`
	Democrat        int64   `csv:"DEMOCRAT"`
	Republican      int64   `csv:"REPUBLICAN"`
	Libertarian     int64   `csv:"LIBERTARIAN"`
	Green           int64   `csv:"GREEN"`
	Other           int64   `csv:"OTHER"`
	MajorPartyVotes int64   `csv:"major_party_votes"`
	DemShare        float64 `csv:"dem_share"`
	RepShare        float64 `csv:"rep_share"`
	Margin          float64 `csv:"margin"`
	Winner          Party   `csv:"winner"`
}

// ComputeWinner returns the winning major party. Republicans win exact ties.
func ComputeWinner(demVotes, repVotes int64) Party {
	if demVotes > repVotes {
		return PartyDemocrat
	}
	return PartyRepublican
}
