package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"hqtrivia-bot/internal/domain"
	"hqtrivia-bot/internal/engine"
)

// ReplayHarness re-runs the prediction engine over the evidence stored in
// game records. It never fetches live evidence, so a replay is
// deterministic and network-independent. Originally recorded predictions
// are compared against but never overwritten.
type ReplayHarness struct {
	store RecordStore
	out   io.Writer
}

func NewReplayHarness(store RecordStore, opts ...ReplayOption) *ReplayHarness {
	h := &ReplayHarness{store: store, out: os.Stdout}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ReplayOption configures a ReplayHarness.
type ReplayOption func(*ReplayHarness)

// WithReplayOutput redirects console reporting, used by tests.
func WithReplayOutput(w io.Writer) ReplayOption {
	return func(h *ReplayHarness) { h.out = w }
}

// RoundReplay is the per-round accuracy comparison.
type RoundReplay struct {
	RoundID         string
	ShowID          int64
	Questions       int
	ReplayCorrect   int
	OriginalCorrect int
}

// ReplayReport aggregates accuracy across all replayed rounds.
type ReplayReport struct {
	Rounds          []RoundReplay
	Questions       int
	ReplayCorrect   int
	OriginalCorrect int
}

// Run replays the stored rounds. With an empty filter all stored rounds
// are replayed; otherwise a round matches on its full identifier or its
// show id.
func (h *ReplayHarness) Run(ctx context.Context, filter []string) (*ReplayReport, error) {
	roundIDs, err := h.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list game records: %w", err)
	}

	report := &ReplayReport{}
	for _, roundID := range roundIDs {
		record, err := h.store.Get(ctx, roundID)
		if err != nil {
			return nil, fmt.Errorf("load game record %s: %w", roundID, err)
		}
		if !matchesFilter(record, filter) {
			continue
		}
		fmt.Fprintf(h.out, "Replaying Round %d\n", record.ShowID)
		round := h.replayRound(record)
		report.Rounds = append(report.Rounds, round)
		report.Questions += round.Questions
		report.ReplayCorrect += round.ReplayCorrect
		report.OriginalCorrect += round.OriginalCorrect
		fmt.Fprintf(h.out, "[ORIG] Correct: %d/%d\n", round.OriginalCorrect, round.Questions)
		fmt.Fprintf(h.out, "Number Correct: %d/%d\n", round.ReplayCorrect, round.Questions)
	}

	fmt.Fprintf(h.out, "%sReplay Complete%s\n", colourBold, colourReset)
	fmt.Fprintf(h.out, "[ORIG] Correct: %d/%d\n", report.OriginalCorrect, report.Questions)
	fmt.Fprintf(h.out, "Total Correct: %d/%d\n", report.ReplayCorrect, report.Questions)
	return report, nil
}

// replayRound re-predicts every question of one record from its stored
// evidence. The record is mutated in memory only (the replay flag), never
// written back.
func (h *ReplayHarness) replayRound(record *domain.GameRecord) RoundReplay {
	round := RoundReplay{
		RoundID:         record.ID,
		ShowID:          record.ShowID,
		Questions:       len(record.Questions),
		OriginalCorrect: record.NumCorrect,
	}
	for i := range record.Questions {
		question := &record.Questions[i]
		question.Replay = true

		var bundle domain.EvidenceBundle
		if question.Evidence != nil {
			bundle = *question.Evidence
		}
		prediction := engine.Predict(question.Text, bundle)

		correct := prediction.Answer != nil && question.Correct != nil && *prediction.Answer == *question.Correct
		predicted := "none"
		if prediction.Answer != nil {
			predicted = string(*prediction.Answer)
		}
		expected := "unknown"
		if question.Correct != nil {
			expected = string(*question.Correct)
		}
		fmt.Fprintf(h.out, "Predicted: %s, Correct: %s\n", predicted, expected)
		if correct {
			round.ReplayCorrect++
			fmt.Fprintf(h.out, "%s%sCorrect? Yes%s\n", colourBold, colourGreen, colourReset)
		} else {
			fmt.Fprintf(h.out, "%s%sCorrect? No%s\n", colourBold, colourRed, colourReset)
		}
	}
	return round
}

func matchesFilter(record *domain.GameRecord, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	showID := strconv.FormatInt(record.ShowID, 10)
	for _, want := range filter {
		if want == record.ID || want == showID {
			return true
		}
	}
	return false
}
