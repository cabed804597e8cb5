// Package sentiment scores the emotional tone of discussion text and combines
// per-text scores into one result per establishment.
package sentiment

import (
	"regexp"
	"strings"
)

// valences is a compact AFINN-style lexicon. Values sit in [-5, 5]; words not
// listed score zero.
var valences = map[string]float64{
	"amazing": 4, "awesome": 4, "best": 3, "incredible": 4, "perfect": 3,
	"outstanding": 5, "superb": 5, "fantastic": 4, "wonderful": 4, "love": 3,
	"loved": 3, "loves": 3, "great": 3, "delicious": 3, "tasty": 2,
	"excellent": 3, "good": 3, "nice": 3, "fresh": 1, "recommend": 2,
	"recommended": 2, "favorite": 2, "enjoy": 2, "enjoyed": 2, "happy": 3,
	"friendly": 2, "cozy": 2, "gem": 3, "solid": 2, "fine": 2, "decent": 1,
	"cheap": 1, "fast": 1, "fun": 4, "yummy": 3, "divine": 2,

	"bad": -3, "awful": -3, "terrible": -3, "horrible": -3, "worst": -3,
	"disgusting": -3, "gross": -2, "bland": -2, "stale": -2, "mediocre": -1,
	"overpriced": -2, "expensive": -1, "slow": -2, "rude": -2, "dirty": -2,
	"hate": -3, "hated": -3, "hates": -3, "disappointing": -2,
	"disappointed": -2, "disappoints": -2, "avoid": -2, "cold": -1,
	"greasy": -2, "soggy": -2, "burnt": -2, "nasty": -3, "poor": -2,
	"waste": -1, "wrong": -2, "sick": -2, "meh": -2, "underwhelming": -2,
}

// negations flip the valence of the word that follows them.
var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "hardly": {}, "dont": {}, "don't": {},
	"didnt": {}, "didn't": {}, "wont": {}, "won't": {}, "cant": {},
	"can't": {}, "isnt": {}, "isn't": {}, "wasnt": {}, "wasn't": {},
}

var wordPattern = regexp.MustCompile(`[a-z']+`)

const rawBound = 5

// LexiconScorer is a plain-text sentiment scorer backed by a word-valence
// lexicon. It is stateless and safe for concurrent use.
type LexiconScorer struct{}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

// Score rates one text. Raw is the summed word valence clamped to [-5, 5];
// comparative is raw divided by the word count (0 for empty text).
func (s *LexiconScorer) Score(text string) (raw, comparative float64, err error) {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return 0, 0, nil
	}

	for i, word := range words {
		v, ok := valences[word]
		if !ok {
			continue
		}
		if i > 0 {
			if _, negated := negations[words[i-1]]; negated {
				v = -v
			}
		}
		raw += v
	}

	if raw > rawBound {
		raw = rawBound
	} else if raw < -rawBound {
		raw = -rawBound
	}

	return raw, raw / float64(len(words)), nil
}
