package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"hqtrivia-bot/internal/domain"
	"hqtrivia-bot/internal/engine"
)

// RecordStore abstracts how game records are persisted (filesystem JSON,
// Postgres, etc). A record is always written whole; the store is the
// single source of truth and assumes a single writer per round.
type RecordStore interface {
	Get(ctx context.Context, roundID string) (*domain.GameRecord, error)
	Put(ctx context.Context, record *domain.GameRecord) error
	List(ctx context.Context) ([]string, error)
}

// EvidenceSource fetches the raw evidence counts for one question. The
// state machine never performs I/O itself; live fetching, caching and
// page scraping all live behind this boundary.
type EvidenceSource interface {
	FetchEvidence(ctx context.Context, questionText string, answers map[domain.Slot]string) (*domain.EvidenceBundle, error)
}

// State is the session's position within a round.
type State int

const (
	StateIdle State = iota
	StateAwaitingGame
	StateInQuestion
	StateAwaitingSummary
	StateRoundEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingGame:
		return "awaiting-game"
	case StateInQuestion:
		return "in-question"
	case StateAwaitingSummary:
		return "awaiting-summary"
	case StateRoundEnded:
		return "round-ended"
	default:
		return "unknown"
	}
}

// SessionStateMachine tracks one trivia round across the ordered event
// feed. Events are handled strictly one at a time in arrival order; any
// error returned from Handle is fatal to the current run.
type SessionStateMachine struct {
	store    RecordStore
	evidence EvidenceSource
	out      io.Writer

	state    State
	roundID  string
	finished bool
}

// Option configures a SessionStateMachine.
type Option func(*SessionStateMachine)

// WithOutput redirects console reporting, used by tests.
func WithOutput(w io.Writer) Option {
	return func(m *SessionStateMachine) { m.out = w }
}

func NewSessionStateMachine(store RecordStore, evidence EvidenceSource, opts ...Option) *SessionStateMachine {
	m := &SessionStateMachine{
		store:    store,
		evidence: evidence,
		out:      os.Stdout,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reset clears round state; called at the top of each outer session loop.
func (m *SessionStateMachine) Reset() {
	m.state = StateIdle
	m.roundID = ""
	m.finished = false
}

// State reports the current transition state.
func (m *SessionStateMachine) State() State { return m.state }

// RoundID reports the active round identifier, empty outside a round.
func (m *SessionStateMachine) RoundID() string { return m.roundID }

// Finished reports whether a clean broadcast end was seen; the owner
// should stop consuming events and close the transport.
func (m *SessionStateMachine) Finished() bool { return m.finished }

// Handle consumes the next feed event. Non-fatal conditions (a question
// with too few answers) are logged and swallowed; every returned error is
// fatal to the run.
func (m *SessionStateMachine) Handle(ctx context.Context, event domain.Event) error {
	switch ev := event.(type) {
	case domain.GameStatus:
		return m.handleGameStatus(ctx, ev)
	case domain.Question:
		return m.handleQuestion(ctx, ev)
	case domain.QuestionSummary:
		return m.handleQuestionSummary(ctx, ev)
	case domain.GameSummary:
		m.handleGameSummary(ev)
		return nil
	case domain.BroadcastEnded:
		m.handleBroadcastEnded(ev)
		return nil
	default:
		log.Printf("unhandled event %T", event)
		return nil
	}
}

func (m *SessionStateMachine) handleGameStatus(ctx context.Context, ev domain.GameStatus) error {
	roundID := domain.RoundID(ev.StartedAt, ev.ShowID)

	_, err := m.store.Get(ctx, roundID)
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		record := &domain.GameRecord{
			ID:            roundID,
			ShowID:        ev.ShowID,
			StartedAt:     ev.StartedAt,
			Prize:         ev.Prize,
			QuestionCount: ev.QuestionCount,
			NumCorrect:    0,
			Questions:     []domain.QuestionRecord{},
		}
		if err := m.store.Put(ctx, record); err != nil {
			return fmt.Errorf("create game record: %w", err)
		}
	case err != nil:
		return fmt.Errorf("load game record: %w", err)
	}

	m.roundID = roundID
	m.state = StateAwaitingGame
	return nil
}

func (m *SessionStateMachine) handleQuestion(ctx context.Context, ev domain.Question) error {
	if m.roundID == "" {
		return domain.ErrNoActiveRound
	}

	answers, err := buildAnswers(ev.Answers)
	if err != nil {
		// Abandon this question, keep the session alive.
		log.Printf("question %d skipped: %v", ev.QuestionID, err)
		return nil
	}

	record, err := m.store.Get(ctx, m.roundID)
	if err != nil {
		return fmt.Errorf("load game record: %w", err)
	}
	// Reconnects re-deliver the current question frame; a question id is
	// recorded at most once per round.
	if record.Question(ev.QuestionID) != nil {
		log.Printf("question %d already recorded, skipping", ev.QuestionID)
		m.state = StateInQuestion
		return nil
	}

	printQuestion(m.out, ev, answers)

	bundle, err := m.evidence.FetchEvidence(ctx, ev.Text, answers)
	if err != nil {
		return fmt.Errorf("fetch evidence for question %d: %w", ev.QuestionID, err)
	}
	prediction := engine.Predict(ev.Text, *bundle)
	printPrediction(m.out, prediction, answers)

	record.Questions = append(record.Questions, domain.QuestionRecord{
		QuestionID: ev.QuestionID,
		Number:     ev.Number,
		Category:   ev.Category,
		Text:       ev.Text,
		Answers:    answers,
		Prediction: prediction,
		Evidence:   bundle,
	})
	if err := m.store.Put(ctx, record); err != nil {
		return fmt.Errorf("persist question %d: %w", ev.QuestionID, err)
	}

	m.state = StateInQuestion
	return nil
}

func (m *SessionStateMachine) handleQuestionSummary(ctx context.Context, ev domain.QuestionSummary) error {
	if m.roundID == "" {
		return domain.ErrNoActiveRound
	}
	record, err := m.store.Get(ctx, m.roundID)
	if err != nil {
		return fmt.Errorf("load game record: %w", err)
	}
	question := record.Question(ev.QuestionID)
	if question == nil {
		return fmt.Errorf("summary for question %d: %w", ev.QuestionID, domain.ErrQuestionNotFound)
	}

	correct, ok := correctSlot(ev.AnswerCounts)
	if !ok {
		return fmt.Errorf("summary for question %d carries no correct flag", ev.QuestionID)
	}

	// A correct slot, once recorded, is never overwritten.
	if question.Correct == nil {
		question.Correct = &correct
		if question.Prediction.Answer != nil && *question.Prediction.Answer == correct {
			record.NumCorrect++
		}
		if err := m.store.Put(ctx, record); err != nil {
			return fmt.Errorf("persist summary for question %d: %w", ev.QuestionID, err)
		}
	}

	printQuestionResult(m.out, question, correct)
	m.state = StateAwaitingSummary
	return nil
}

func (m *SessionStateMachine) handleGameSummary(ev domain.GameSummary) {
	printGameSummary(m.out, ev)
	m.state = StateRoundEnded
}

func (m *SessionStateMachine) handleBroadcastEnded(ev domain.BroadcastEnded) {
	if ev.Reason != "" {
		// Abnormal end; the transport treats it as a retryable disconnect.
		log.Printf("broadcast ended with reason %q, not treating as clean end", ev.Reason)
		return
	}
	fmt.Fprintln(m.out, "BROADCAST ENDED.")
	m.finished = true
	m.state = StateRoundEnded
}

// buildAnswers maps the feed's ordered answers onto slot letters.
func buildAnswers(options []domain.AnswerOption) (map[domain.Slot]string, error) {
	if len(options) < domain.AnswerCount {
		return nil, fmt.Errorf("%w: got %d", domain.ErrAnswerSlots, len(options))
	}
	answers := make(map[domain.Slot]string, domain.AnswerCount)
	for i, slot := range domain.Slots {
		answers[slot] = options[i].Text
	}
	return answers, nil
}

// correctSlot returns the slot letter of the flagged summary entry.
func correctSlot(counts []domain.AnswerSummary) (domain.Slot, bool) {
	for i, entry := range counts {
		if entry.Correct && i < len(domain.Slots) {
			return domain.Slots[i], true
		}
	}
	return "", false
}

func printQuestion(w io.Writer, ev domain.Question, answers map[domain.Slot]string) {
	fmt.Fprintf(w, "------------ QUESTION %d | %s ------------\n", ev.Number, ev.Category)
	fmt.Fprintf(w, "%s%s%s\n", colourBold, ev.Text, colourReset)
	fmt.Fprintln(w, "------------ ANSWERS ------------")
	for _, slot := range domain.Slots {
		fmt.Fprintf(w, "%s: %s\n", slot, answers[slot])
	}
	fmt.Fprintln(w, "---------------------------------")
}

func printPrediction(w io.Writer, prediction domain.Prediction, answers map[domain.Slot]string) {
	for _, slot := range domain.Slots {
		line := fmt.Sprintf("Answer %s: %s - %d%%", slot, answers[slot], prediction.Confidence[slot])
		if prediction.Answer != nil && *prediction.Answer == slot {
			line = colourBold + line + colourReset
		}
		fmt.Fprintln(w, line)
	}
	if prediction.Answer == nil {
		fmt.Fprintln(w, "No evidence found, abstaining.")
	}
}

func printQuestionResult(w io.Writer, question *domain.QuestionRecord, correct domain.Slot) {
	fmt.Fprintf(w, "%sCorrect Answer: %s - %s%s\n", colourBold, correct, question.Answers[correct], colourReset)
	if question.Prediction.Answer != nil && *question.Prediction.Answer == correct {
		fmt.Fprintf(w, "%s%sPrediction Correct? Yes%s\n", colourBold, colourGreen, colourReset)
	} else {
		fmt.Fprintf(w, "%s%sPrediction Correct? No%s\n", colourBold, colourRed, colourReset)
	}
}

func printGameSummary(w io.Writer, ev domain.GameSummary) {
	payout := "Unknown"
	if len(ev.Winners) > 0 {
		payout = ev.Winners[0].Prize
	}
	fmt.Fprintf(w, "GAME ENDED. %d WINNERS. AVG PAYOUT %s.\n", ev.WinnerCount, payout)

	winners := make([]domain.Winner, len(ev.Winners))
	copy(winners, ev.Winners)
	sort.SliceStable(winners, func(i, j int) bool { return winners[i].Wins > winners[j].Wins })
	if len(winners) > 20 {
		winners = winners[:20]
	}
	if len(winners) > 0 {
		fmt.Fprintln(w, "Top Winners:")
	}
	for _, winner := range winners {
		fmt.Fprintf(w, "%s%s%s (Wins: %d)\n", colourBold, winner.Name, colourReset, winner.Wins)
	}
}
