package mentions

import (
	"strings"

	"github.com/AshZadePM/localreco/internal/domain"
)

// Aggregate merges per-document mentions into one entry per distinct
// establishment. Identity is case-insensitive; the first-seen casing wins.
// Occurrence counts are additive, while a document contributing the same name
// several times appears once in the source list. Entries come back in
// first-seen order so callers sorting them stay reproducible.
func Aggregate(ms []domain.Mention) []domain.AggregatedEstablishment {
	index := make(map[string]int)
	out := make([]domain.AggregatedEstablishment, 0, len(ms))

	for _, m := range ms {
		key := strings.ToLower(m.Name)
		i, exists := index[key]
		if !exists {
			index[key] = len(out)
			out = append(out, domain.AggregatedEstablishment{
				Name:         m.Name,
				MentionCount: m.Occurrences,
				SourceDocIDs: []string{m.DocumentID},
			})
			continue
		}

		out[i].MentionCount += m.Occurrences
		if !containsString(out[i].SourceDocIDs, m.DocumentID) {
			out[i].SourceDocIDs = append(out[i].SourceDocIDs, m.DocumentID)
		}
	}

	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
