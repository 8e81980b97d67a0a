package translate

import (
	"strings"
	"unicode"

	"github.com/FlipSniper/ebay-review-whisperer/internal/matcher"
	"github.com/bbalet/stopwords"
)

// Languages compared against English when deciding whether a comment needs
// translating. Codes are ISO 639-1 as the stopword lists use them.
var comparedLanguages = []string{"es", "fr", "de", "it", "pt", "nl"}

const minWordsToJudge = 3

// LooksEnglish guesses whether text is English by counting stopwords per language.
// Comments too short to judge, or with no stopwords in any language, are treated
// as English.
func LooksEnglish(text string) bool {
	words := letterWords(text)
	if len(words) < minWordsToJudge {
		return true
	}
	en := stopwordCount(words, "en")
	best := 0
	for _, lang := range comparedLanguages {
		if n := stopwordCount(words, lang); n > best {
			best = n
		}
	}
	if en == 0 && best == 0 {
		return true
	}
	return en >= best
}

func letterWords(text string) []string {
	var out []string
	for _, tok := range matcher.Tokenize(text) {
		if strings.IndexFunc(tok, unicode.IsDigit) >= 0 {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func stopwordCount(words []string, lang string) int {
	n := 0
	for _, w := range words {
		if strings.TrimSpace(stopwords.CleanString(w, lang, false)) == "" {
			n++
		}
	}
	return n
}
