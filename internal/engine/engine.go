// Package engine turns raw per-answer evidence counts into a single
// predicted answer with a confidence breakdown.
package engine

import (
	"strings"

	"hqtrivia-bot/internal/domain"
)

// Fixed weights per signal; answer-word matches count double.
const (
	WeightAnswerMatches  = 200
	WeightResultCounts   = 100
	WeightKeywordMatches = 100
)

// Predict combines the bundle's three signals into a prediction for the
// given question text.
//
// Each signal with a nonzero total contributes floor(count/total*weight)
// per slot; an all-zero signal contributes explicit zeros. Questions
// containing "NOT" or "NEVER" (case-sensitive) invert the pick to the
// minimum combined confidence. Ties resolve to the earliest slot in A, B,
// C order. A zero combined total means abstain: nil answer, all-zero
// percentages. Percentages are floor(confidence/total*100) per slot and
// may sum to less than 100; that truncation is deliberate.
func Predict(questionText string, bundle domain.EvidenceBundle) domain.Prediction {
	combined := make(map[domain.Slot]int64, len(domain.Slots))
	for _, slot := range domain.Slots {
		combined[slot] = 0
	}
	accumulate(combined, bundle.AnswerMatches, WeightAnswerMatches)
	accumulate(combined, bundle.ResultCounts, WeightResultCounts)
	accumulate(combined, bundle.KeywordMatches, WeightKeywordMatches)

	picked := pickSlot(questionText, combined)

	var total int64
	for _, confidence := range combined {
		total += confidence
	}

	confidence := make(map[domain.Slot]int, len(domain.Slots))
	for _, slot := range domain.Slots {
		if total == 0 {
			confidence[slot] = 0
			continue
		}
		confidence[slot] = int(combined[slot] * 100 / total)
	}

	if total == 0 {
		return domain.Prediction{Answer: nil, Confidence: confidence}
	}
	return domain.Prediction{Answer: &picked, Confidence: confidence}
}

// accumulate scales one signal's counts to its weight and adds them to
// the running combined confidence.
func accumulate(combined map[domain.Slot]int64, occurrences domain.Occurrences, weight int64) {
	total := occurrences.Total()
	if total == 0 {
		return
	}
	for _, slot := range domain.Slots {
		combined[slot] += occurrences[slot] * weight / total
	}
}

// pickSlot applies the negated-question heuristic: "NOT"/"NEVER" flips
// the pick from arg-max to arg-min. Strict comparisons keep the earliest
// slot among ties.
func pickSlot(questionText string, combined map[domain.Slot]int64) domain.Slot {
	negated := strings.Contains(questionText, "NOT") || strings.Contains(questionText, "NEVER")
	picked := domain.Slots[0]
	for _, slot := range domain.Slots[1:] {
		if negated {
			if combined[slot] < combined[picked] {
				picked = slot
			}
		} else if combined[slot] > combined[picked] {
			picked = slot
		}
	}
	return picked
}
