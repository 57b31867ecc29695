// Package extract pulls ranked place-name candidates out of free-text,
// multilingual station names using layered heuristics. It performs no I/O.
package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Misadov/radiomap/internal/model"
)

// Extraction tier priorities, highest tried first by the resolver.
const (
	PriorityBracketed = 10
	PriorityKeyword   = 8
	PriorityRegion    = 6
	PriorityPotential = 4
	PriorityCountry   = 2
)

const wordExpr = `[\p{L}\p{N}_]+`

var bracketPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(([^)]+)\)`),
	regexp.MustCompile(`\[([^\]]+)\]`),
	regexp.MustCompile(`\{([^}]+)\}`),
}

var (
	frequencyPattern = regexp.MustCompile(`(?i)\b\d+[.,]?\d*\s*(fm|am|mhz|khz)\b`)
	punctPattern     = regexp.MustCompile(`[^\p{L}\p{N}\s\-()\[\]_]+`)
	digitsOnly       = regexp.MustCompile(`^\d+$`)
	// Broad Latin/Cyrillic letter set a potential-tier token must stay within.
	letterToken = regexp.MustCompile(`^[a-zA-Zа-яА-Я\x{00C0}-\x{017F}\x{0100}-\x{024F}]+$`)
)

type keywordPattern struct {
	re       *regexp.Regexp
	category model.Category
}

var keywordPatterns []keywordPattern

func init() {
	for _, kw := range cityKeywords {
		quoted := regexp.QuoteMeta(kw)
		for _, expr := range []string{
			fmt.Sprintf(`(?i)(%s)\s+%s`, wordExpr, quoted),
			fmt.Sprintf(`(?i)%s\s+(%s)`, quoted, wordExpr),
			fmt.Sprintf(`(?i)(%s[-_]%s)\s+%s`, wordExpr, wordExpr, quoted),
		} {
			keywordPatterns = append(keywordPatterns, keywordPattern{
				re:       regexp.MustCompile(expr),
				category: model.CategoryCity,
			})
		}
	}
	for _, kw := range villageKeywords {
		quoted := regexp.QuoteMeta(kw)
		for _, expr := range []string{
			fmt.Sprintf(`(?i)(%s)\s+%s`, wordExpr, quoted),
			fmt.Sprintf(`(?i)%s\s+(%s)`, quoted, wordExpr),
		} {
			keywordPatterns = append(keywordPatterns, keywordPattern{
				re:       regexp.MustCompile(expr),
				category: model.CategoryVillage,
			})
		}
	}
}

// Extractor produces ranked location candidates for a station. It is
// stateless and safe to share.
type Extractor struct{}

// New returns a candidate extractor.
func New() *Extractor { return &Extractor{} }

// Extract returns all potential locations for the station, highest priority
// first, with no duplicate text (case-insensitive; the higher-priority entry
// wins). The result is deterministic for a fixed input.
func (e *Extractor) Extract(st model.Station) []model.Candidate {
	var candidates []model.Candidate

	for _, text := range extractFromBrackets(st.Name) {
		candidates = append(candidates, model.Candidate{
			Text: text, Category: model.CategoryExtracted, Priority: PriorityBracketed,
		})
	}

	for _, cand := range extractWithKeywords(st.Name) {
		cand.Priority = PriorityKeyword
		candidates = append(candidates, cand)
	}

	if utf8.RuneCountInString(st.State) > 2 {
		candidates = append(candidates, model.Candidate{
			Text: st.State, Category: model.CategoryRegion, Priority: PriorityRegion,
		})
	}

	for _, word := range extractPotentialPlaces(st.Name) {
		candidates = append(candidates, model.Candidate{
			Text: word, Category: model.CategoryPotential, Priority: PriorityPotential,
		})
	}

	if st.Country != "" {
		country := st.Country
		if alias, ok := countryAliases[strings.ToLower(country)]; ok {
			country = alias
		}
		candidates = append(candidates, model.Candidate{
			Text: country, Category: model.CategoryCountry, Priority: PriorityCountry,
		})
	}

	return dedupe(candidates)
}

// dedupe groups candidates by case-insensitive text, keeps the
// highest-priority entry per group, and sorts descending by priority. The
// sort is stable, so tier-internal score order survives.
func dedupe(candidates []model.Candidate) []model.Candidate {
	var order []string
	best := make(map[string]model.Candidate)
	for _, cand := range candidates {
		key := strings.ToLower(cand.Text)
		existing, ok := best[key]
		if !ok {
			order = append(order, key)
			best[key] = cand
		} else if cand.Priority > existing.Priority {
			best[key] = cand
		}
	}

	out := make([]model.Candidate, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// extractFromBrackets pulls substrings enclosed in (), [], {}. Station
// naming conventions frequently place the city in parentheses.
func extractFromBrackets(name string) []string {
	var out []string
	for _, re := range bracketPatterns {
		for _, match := range re.FindAllStringSubmatch(name, -1) {
			text := strings.TrimSpace(match[1])
			if utf8.RuneCountInString(text) > 2 && !containsRadioKeyword(text) {
				out = append(out, text)
			}
		}
	}
	return out
}

// extractWithKeywords finds tokens adjacent to multilingual city/village
// keywords, filtered against the branding stoplist.
func extractWithKeywords(name string) []model.Candidate {
	var out []model.Candidate
	for _, kp := range keywordPatterns {
		for _, match := range kp.re.FindAllStringSubmatch(name, -1) {
			token := match[1]
			if utf8.RuneCountInString(token) <= 2 {
				continue
			}
			if nonGeographicWords[strings.ToLower(token)] || containsRadioKeyword(token) {
				continue
			}
			out = append(out, model.Candidate{Text: token, Category: kp.category})
		}
	}
	return out
}

// extractPotentialPlaces tokenizes the cleaned name and keeps tokens whose
// place-likelihood score is positive, ordered best first.
func extractPotentialPlaces(name string) []string {
	type scored struct {
		word  string
		score int
	}
	var kept []scored
	for _, word := range strings.Fields(cleanName(name)) {
		if utf8.RuneCountInString(word) <= 2 ||
			digitsOnly.MatchString(word) ||
			containsRadioKeyword(word) ||
			!letterToken.MatchString(word) {
			continue
		}
		if nonGeographicWords[strings.ToLower(word)] {
			continue
		}
		if s := scorePlaceLikelihood(word); s > 0 {
			kept = append(kept, scored{word, s})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	out := make([]string, len(kept))
	for i, s := range kept {
		out[i] = s.word
	}
	return out
}

// cleanName lowercases the station name and strips frequency markers,
// punctuation, and radio/article/genre/tech filler tokens.
func cleanName(name string) string {
	cleaned := strings.ToLower(strings.TrimSpace(name))
	cleaned = frequencyPattern.ReplaceAllString(cleaned, " ")
	cleaned = punctPattern.ReplaceAllString(cleaned, " ")

	var kept []string
	for _, token := range strings.Fields(cleaned) {
		if radioStripWords[token] || articleWords[token] || genreWords[token] || techWords[token] {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}

func containsRadioKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range radioKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
