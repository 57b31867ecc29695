package geocode

import "strings"

// countryCanonical maps common alternate spellings to the canonical key of
// the variations table.
var countryCanonical = map[string]string{
	"the russian federation": "russia",
	"russian federation":     "russia",
	"usa":                    "united states",
	"uk":                     "united kingdom",
	"great britain":          "united kingdom",
}

// countryVariationTable lists the strings a returned country label may
// carry for each expected country. Matching is substring-based against the
// last segment of the resolved place name.
var countryVariationTable = map[string][]string{
	"russia":         {"russia", "russian federation", "russian", "россия"},
	"united states":  {"united states", "usa", "america", "us"},
	"united kingdom": {"united kingdom", "uk", "great britain", "britain", "england"},
	"germany":        {"germany", "deutschland", "german"},
	"france":         {"france", "french"},
	"spain":          {"spain", "spanish", "españa"},
	"italy":          {"italy", "italian", "italia"},
	"brazil":         {"brazil", "brazilian", "brasil"},
	"mexico":         {"mexico", "mexican", "méxico"},
	"canada":         {"canada", "canadian"},
	"australia":      {"australia", "australian"},
	"china":          {"china", "chinese", "中国"},
	"japan":          {"japan", "japanese", "日本"},
	"india":          {"india", "indian"},
	"netherlands":    {"netherlands", "dutch", "holland"},
	"sweden":         {"sweden", "swedish", "sverige"},
	"norway":         {"norway", "norwegian", "norge"},
	"denmark":        {"denmark", "danish", "danmark"},
	"finland":        {"finland", "finnish", "suomi"},
	"poland":         {"poland", "polish", "polska"},
	"romania":        {"romania", "romanian", "românia"},
	"greece":         {"greece", "greek", "ελλάδα"},
	"turkey":         {"turkey", "turkish", "türkiye"},
	"south africa":   {"south africa", "south african"},
	"argentina":      {"argentina", "argentinian"},
	"chile":          {"chile", "chilean"},
	"colombia":       {"colombia", "colombian"},
	"venezuela":      {"venezuela", "venezuelan"},
	"peru":           {"peru", "peruvian", "perú"},
}

// normalizeCountry lowercases a country name and folds known alternate
// spellings onto the canonical variation-table key.
func normalizeCountry(country string) string {
	normalized := strings.ToLower(strings.TrimSpace(country))
	if canonical, ok := countryCanonical[normalized]; ok {
		return canonical
	}
	return normalized
}

// countryVariations returns the accepted label variations for a normalized
// country name, falling back to the name itself.
func countryVariations(country string) []string {
	if vars, ok := countryVariationTable[strings.ToLower(country)]; ok {
		return vars
	}
	return []string{strings.ToLower(country)}
}
