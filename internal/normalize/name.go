package normalize

import (
	"regexp"
	"strings"
)

// NameConfig is the immutable lookup data behind county name normalization.
type NameConfig struct {
	// SpacingFixes collapses two-word spellings that appear as one word in
	// other vintages (DE WITT vs DEWITT).
	SpacingFixes map[string]string
	// Suffixes are jurisdictional suffixes stripped from most names,
	// longest first.
	Suffixes []string
	// WeakSuffixes are the only suffixes stripped from preserve-list names.
	WeakSuffixes []string
	// PreserveList names base names where an independent city and a county
	// coexist; stripping " CITY"/" COUNTY" there would merge two distinct
	// jurisdictions into one key.
	PreserveList []string
}

// DefaultNameConfig returns the lookup tables used for US county matching.
func DefaultNameConfig() NameConfig {
	return NameConfig{
		Suffixes: []string{
			" CITY AND BOROUGH",
			" CENSUS AREA",
			" MUNICIPALITY",
			" BOROUGH",
			" COUNTY",
			" PARISH",
			" CITY",
		},
		// Everything except " CITY": St. Louis city and St. Louis County must
		// keep distinct keys while "SAINT LOUIS" still matches the county.
		WeakSuffixes: []string{
			" CITY AND BOROUGH",
			" CENSUS AREA",
			" MUNICIPALITY",
			" BOROUGH",
			" COUNTY",
			" PARISH",
		},
		PreserveList: []string{
			"BALTIMORE", "ST LOUIS", "FAIRFAX", "FRANKLIN", "RICHMOND", "ROANOKE",
		},
		SpacingFixes: map[string]string{
			"DE WITT":    "DEWITT",
			"DE KALB":    "DEKALB",
			"JO DAVIESS": "JODAVIESS",
			"LA SALLE":   "LASALLE",
			"DU PAGE":    "DUPAGE",
		},
	}
}

var (
	districtRe   = regexp.MustCompile(`DISTRICT (\d+)\b`)
	punctRe      = regexp.MustCompile(`[^A-Z0-9 ]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NameNormalizer produces stable match keys for county and state names.
type NameNormalizer struct {
	config NameConfig
}

// NewNameNormalizer creates a NameNormalizer with the given lookup tables.
func NewNameNormalizer(config NameConfig) *NameNormalizer {
	return &NameNormalizer{config: config}
}

// County normalizes a county name for matching: uppercase, Saint/St
// canonicalization, district zero-padding, spacing fixes, punctuation and
// whitespace cleanup, then suffix stripping honoring the preserve list.
func (n *NameNormalizer) County(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "ST.", "ST")
	s = strings.ReplaceAll(s, "STE.", "STE")
	s = strings.ReplaceAll(s, "SAINT ", "ST ")

	// "DISTRICT 1" and "DISTRICT 01" must produce the same key.
	s = districtRe.ReplaceAllStringFunc(s, func(m string) string {
		digits := strings.TrimPrefix(m, "DISTRICT ")
		digits = strings.TrimLeft(digits, "0")
		if digits == "" {
			digits = "0"
		}
		if len(digits) < 2 {
			digits = "0" + digits
		}
		return "DISTRICT " + digits
	})

	for spaced, joined := range n.config.SpacingFixes {
		s = strings.ReplaceAll(s, spaced, joined)
	}

	s = punctRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	suffixes := n.config.Suffixes
	if n.preserved(s) {
		suffixes = n.config.WeakSuffixes
	}
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}

	return s
}

// State normalizes a state name or abbreviation.
func (n *NameNormalizer) State(state string) string {
	return strings.ToUpper(strings.TrimSpace(state))
}

// Key builds the composite fallback match key for a county within a state.
func (n *NameNormalizer) Key(county, state string) string {
	return n.County(county) + "|" + n.State(state)
}

func (n *NameNormalizer) preserved(name string) bool {
	for _, base := range n.config.PreserveList {
		if strings.Contains(name, base) {
			return true
		}
	}
	return false
}
