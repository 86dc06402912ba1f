package games

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"hqtrivia-bot/internal/domain"
)

func TestGetMissingRecord(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Get(context.Background(), "2018-03-12-game-1"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestRoundTripPreservesOptionalFields(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	slotB := domain.SlotB
	record := &domain.GameRecord{
		ID:            "2018-03-12-game-7041",
		ShowID:        7041,
		StartedAt:     "2018-03-12T20:00:00.000Z",
		Prize:         "$5,000",
		QuestionCount: 12,
		NumCorrect:    1,
		Questions: []domain.QuestionRecord{
			{
				QuestionID: 101,
				Number:     1,
				Category:   "Geography",
				Text:       "Which river is longest?",
				Answers: map[domain.Slot]string{
					domain.SlotA: "Nile",
					domain.SlotB: "Amazon",
					domain.SlotC: "Yangtze",
				},
				Prediction: domain.Prediction{
					Answer:     &slotB,
					Confidence: map[domain.Slot]int{domain.SlotA: 10, domain.SlotB: 80, domain.SlotC: 9},
				},
				Evidence: &domain.EvidenceBundle{
					AnswerMatches:  domain.Occurrences{domain.SlotA: 1, domain.SlotB: 8, domain.SlotC: 0},
					ResultCounts:   domain.Occurrences{domain.SlotA: 100, domain.SlotB: 900, domain.SlotC: 50},
					KeywordMatches: domain.Occurrences{domain.SlotA: 0, domain.SlotB: 0, domain.SlotC: 0},
				},
				Correct: &slotB,
			},
			{
				// Abstained prediction, summary not yet seen: both
				// optional fields absent.
				QuestionID: 102,
				Number:     2,
				Category:   "Music",
				Text:       "Which band?",
				Answers: map[domain.Slot]string{
					domain.SlotA: "Queen",
					domain.SlotB: "ABBA",
					domain.SlotC: "Wings",
				},
				Prediction: domain.Prediction{
					Answer:     nil,
					Confidence: map[domain.Slot]int{domain.SlotA: 0, domain.SlotB: 0, domain.SlotC: 0},
				},
			},
		},
	}

	if err := store.Put(ctx, record); err != nil {
		t.Fatalf("put: %v", err)
	}
	loaded, err := store.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(record, loaded) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", record, loaded)
	}
	if loaded.Questions[1].Correct != nil {
		t.Fatalf("absent correct slot must stay absent, got %v", *loaded.Questions[1].Correct)
	}
	if loaded.Questions[1].Prediction.Answer != nil {
		t.Fatalf("absent prediction must stay absent, got %v", *loaded.Questions[1].Prediction.Answer)
	}
}

func TestListReturnsSortedRoundIDs(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	for _, id := range []string{"2018-03-14-game-2", "2018-03-12-game-1"} {
		if err := store.Put(ctx, &domain.GameRecord{ID: id}); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}
	ids, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2018-03-12-game-1", "2018-03-14-game-2"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
}

func TestListMissingDirIsEmpty(t *testing.T) {
	store := New(t.TempDir() + "/does-not-exist")
	ids, err := store.List(context.Background())
	if err != nil || len(ids) != 0 {
		t.Fatalf("expected empty list, got %v err=%v", ids, err)
	}
}
