package engine

import (
	"strings"

	"hqtrivia-bot/internal/domain"
)

// The three signal extractors turn raw evidence material into per-slot
// occurrence counts. They are pure functions so both the live fetcher and
// the tests can drive them with fixture input.

// AnswerWordMatches counts literal occurrences of each answer's normalized
// text within the concatenated snippet/title/card text of the plain
// search query.
func AnswerWordMatches(snippets string, answers map[domain.Slot]string) domain.Occurrences {
	normalized := NormalizeWords(snippets)
	occurrences := zeroOccurrences()
	for slot, answer := range answers {
		answerWords := NormalizeWords(answer)
		if answerWords == "" {
			continue
		}
		occurrences[slot] = int64(strings.Count(normalized, answerWords))
	}
	return occurrences
}

// ResultCountOccurrences carries each quoted query's reported total-result
// figure through as that slot's occurrence count.
func ResultCountOccurrences(counts map[domain.Slot]int64) domain.Occurrences {
	occurrences := zeroOccurrences()
	for slot, count := range counts {
		occurrences[slot] = count
	}
	return occurrences
}

// ReferenceKeywordMatches counts the question's significant words in each
// answer's reference page body. An unresolved page short-circuits the
// remaining slots: whatever accumulated so far is the partial result.
func ReferenceKeywordMatches(questionText string, pages map[domain.Slot]domain.ReferencePage) domain.Occurrences {
	keywords := SignificantWords(NormalizeWords(questionText))
	occurrences := zeroOccurrences()
	for _, slot := range domain.Slots {
		page, ok := pages[slot]
		if !ok || !page.Resolved {
			break
		}
		occurrences[slot] = countKeywords(keywords, NormalizeWords(page.Body))
	}
	return occurrences
}

func zeroOccurrences() domain.Occurrences {
	occurrences := make(domain.Occurrences, len(domain.Slots))
	for _, slot := range domain.Slots {
		occurrences[slot] = 0
	}
	return occurrences
}
