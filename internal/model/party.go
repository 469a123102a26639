// Package model defines the core domain models used throughout the pipeline.
package model

// Party is a canonical party label.
type Party string

// Canonical party taxonomy. Raw labels outside this set normalize to PartyOther.
const (
	PartyDemocrat    Party = "DEMOCRAT"
	PartyRepublican  Party = "REPUBLICAN"
	PartyLibertarian Party = "LIBERTARIAN"
	PartyGreen       Party = "GREEN"
	PartyIndependent Party = "INDEPENDENT"
	PartyOther       Party = "OTHER"
)

// PartyColors maps canonical parties to their map display colors.
var PartyColors = map[Party]string{
	PartyDemocrat:    "#0015BC",
	PartyRepublican:  "#FF0000",
	PartyLibertarian: "#FED105",
	PartyGreen:       "#17AA5C",
	PartyOther:       "#999999",
}
