package constants

import "strings"

// legalEntityAbbrevs lists Lithuanian legal-entity abbreviations that never
// discriminate between vendors. The list is open-ended, not exhaustive.
var legalEntityAbbrevs = map[string]struct{}{
	"uab": {},
	"ab":  {},
	"mb":  {},
	"vši": {},
	"vsi": {},
	"įį":  {},
	"ii":  {},
	"ją":  {},
}

// IsLegalEntityAbbrev reports whether a lowercased word is a legal-entity
// abbreviation rather than a usable vendor-name token.
func IsLegalEntityAbbrev(word string) bool {
	_, ok := legalEntityAbbrevs[strings.ToLower(word)]
	return ok
}
