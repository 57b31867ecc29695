package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token scoring is a tunable signal, not a hard classifier: a declarative
// rule table evaluated in a fixed order on top of a base score. Tokens with
// a non-positive final score are discarded by the caller.
const baseScore = 10

type scoreRule struct {
	name   string
	weight int
	match  func(word, lower string) bool
}

var (
	cyrillicVowelPair = regexp.MustCompile(`[аеиоуыэюя].*[аеиоуыэюя]`)
	latinVowelPair    = regexp.MustCompile(`[aeiou].*[aeiou]`)
)

var placeSuffixes = []string{"ово", "ино", "ск", "град", "бург", "town", "burg", "ville"}

var functionWords = map[string]bool{
	"the": true, "and": true, "or": true, "of": true, "in": true,
	"on": true, "at": true, "to": true, "for": true,
	"с": true, "и": true, "на": true, "в": true, "по": true,
}

var genericAdjectives = map[string]bool{
	"new": true, "old": true, "big": true, "hot": true, "top": true,
	"первый": true, "новый": true, "старый": true,
}

var scoreRules = []scoreRule{
	{"long word", +3, func(word, _ string) bool {
		return utf8.RuneCountInString(word) >= 6
	}},
	{"capitalized", +2, func(word, _ string) bool {
		r, _ := utf8.DecodeRuneInString(word)
		return unicode.IsUpper(r)
	}},
	{"cyrillic vowels", +2, func(_, lower string) bool {
		return cyrillicVowelPair.MatchString(lower)
	}},
	{"latin vowels", +2, func(_, lower string) bool {
		return latinVowelPair.MatchString(lower)
	}},
	{"place suffix", +5, func(_, lower string) bool {
		for _, suffix := range placeSuffixes {
			if strings.HasSuffix(lower, suffix) {
				return true
			}
		}
		return false
	}},
	{"function word", -10, func(_, lower string) bool {
		return functionWords[lower]
	}},
	{"three letters", -2, func(word, _ string) bool {
		return utf8.RuneCountInString(word) == 3
	}},
	{"generic adjective", -5, func(_, lower string) bool {
		return genericAdjectives[lower]
	}},
}

// scorePlaceLikelihood rates how likely a word is to be a place name.
// Higher is more likely.
func scorePlaceLikelihood(word string) int {
	lower := strings.ToLower(word)
	score := baseScore
	for _, rule := range scoreRules {
		if rule.match(word, lower) {
			score += rule.weight
		}
	}
	return score
}
