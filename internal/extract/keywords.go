package extract

// Location keywords in multiple languages. A token adjacent to one of these
// is treated as a named place of the matching category.
var cityKeywords = []string{
	"city", "град", "город", "ciudad", "ville", "stadt", "città", "cidade",
	"市", "都市", "शहर", "مدينة", "πόλη", "miasto", "város",
}

var villageKeywords = []string{
	"village", "село", "деревня", "поселение", "поселок", "aldea", "pueblo",
	"villaggio", "dorf", "村", "गांव", "قرية", "χωριό", "wieś", "falu",
}

var radioKeywords = []string{
	"radio", "fm", "am", "радио", "station", "станция", "rádio", "راديو",
	"ραδιόφωνο", "ラジオ", "रेडियो", "radiostacja", "rádió", "emisora",
}

// nonGeographicWords are branding, genre, and filler words that look like
// tokens but are clearly not places.
var nonGeographicWords = map[string]bool{}

func init() {
	for _, w := range []string{
		// Russian
		"пирамида", "радио", "плюс", "европа", "русское", "авто", "хит", "шансон",
		"ретро", "классик", "музыка", "новости", "спорт", "энергия", "максимум",
		"люкс", "элит", "лайт", "голд", "джаз", "блюз", "рок", "поп", "дача",
		"юмор", "смех", "юность", "дорожное", "такси", "бизнес", "эхо", "голос",
		"волна", "звезда", "комета", "планета", "орбита", "космос", "мир",
		// English
		"pyramid", "plus", "europe", "auto", "hit", "retro", "classic", "music",
		"news", "sport", "energy", "maximum", "luxury", "elite", "light", "gold",
		"jazz", "blues", "rock", "pop", "humor", "laugh", "youth", "business",
		"echo", "voice", "wave", "star", "comet", "planet", "orbit", "space",
		"world", "super", "mega", "ultra", "power", "force", "magic", "diamond",
		"crystal", "rainbow", "sunshine", "moonlight", "fire", "ice", "storm",
		// Common brand words
		"first", "best", "top", "new", "old", "big", "small", "hot", "cool",
		"fresh", "live", "online", "digital", "network", "central", "main",
	} {
		nonGeographicWords[w] = true
	}
}

// IsNonGeographic reports whether a lowercased word is a known brand or
// genre word rather than a place. Exported for the validator.
func IsNonGeographic(word string) bool {
	return nonGeographicWords[word]
}

// countryAliases maps colloquial or localized country names to the form the
// geocoding service resolves best.
var countryAliases = map[string]string{
	"usa":         "united states",
	"uk":          "united kingdom",
	"uae":         "united arab emirates",
	"russia":      "russian federation",
	"россия":      "russian federation",
	"украина":     "ukraine",
	"беларусь":    "belarus",
	"казахстан":   "kazakhstan",
	"deutschland": "germany",
	"españa":      "spain",
	"brasil":      "brazil",
}

// Token stop sets applied while cleaning a station name. These mirror the
// strip patterns for radio words, articles, genres, and tech terms.
var (
	articleWords = map[string]bool{
		"the": true, "la": true, "le": true, "el": true,
		"der": true, "die": true, "das": true,
	}
	genreWords = map[string]bool{
		"music": true, "rock": true, "pop": true, "jazz": true,
		"news": true, "sport": true,
	}
	techWords = map[string]bool{
		"live": true, "online": true, "stream": true, "digital": true,
	}
	radioStripWords = map[string]bool{
		"radio": true, "fm": true, "am": true, "station": true,
		"станция": true, "радио": true,
	}
)
