package sentiment

import (
	"log/slog"
	"math"
	"strings"

	"github.com/AshZadePM/localreco/internal/domain"
)

// labelThreshold is the strict comparative cutoff for positive/negative.
// Exactly ±0.1 stays neutral.
const labelThreshold = 0.1

// Combiner turns all text associated with one establishment into a single
// sentiment result.
type Combiner struct {
	scorer domain.Scorer
}

func NewCombiner(scorer domain.Scorer) *Combiner {
	return &Combiner{scorer: scorer}
}

// Combine scores every non-blank text independently and averages the raw and
// comparative scores (plain arithmetic mean, not length-weighted). An empty
// or all-blank input yields the neutral zero result. A text the scorer fails
// on contributes neutral zero instead of poisoning the aggregate.
func (c *Combiner) Combine(texts []string) domain.SentimentResult {
	var scored int
	var rawSum, comparativeSum float64

	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}

		raw, comparative, err := c.scorer.Score(text)
		if err != nil {
			slog.Warn("Sentiment scoring failed, counting text as neutral", "error", err)
			raw, comparative = 0, 0
		}

		rawSum += raw
		comparativeSum += comparative
		scored++
	}

	if scored == 0 {
		return domain.SentimentResult{Label: domain.LabelNeutral}
	}

	raw := roundTo(rawSum/float64(scored), 2)
	comparative := roundTo(comparativeSum/float64(scored), 4)

	return domain.SentimentResult{
		Raw:         raw,
		Comparative: comparative,
		Label:       Classify(comparative),
	}
}

// Classify maps a comparative score onto a label. Applied uniformly wherever
// a label is derived.
func Classify(comparative float64) domain.SentimentLabel {
	switch {
	case comparative > labelThreshold:
		return domain.LabelPositive
	case comparative < -labelThreshold:
		return domain.LabelNegative
	default:
		return domain.LabelNeutral
	}
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
