package domain

import "errors"

var (
	// ErrRecordNotFound is returned when no game record exists for a round id.
	ErrRecordNotFound = errors.New("game record not found")
	// ErrNoActiveRound is returned when a question arrives before any game status.
	ErrNoActiveRound = errors.New("no active round")
	// ErrQuestionNotFound indicates a summary referenced an unknown question,
	// which points at an out-of-order or corrupted feed.
	ErrQuestionNotFound = errors.New("question not found in game record")
	// ErrAnswerSlots indicates a question arrived with fewer than three answers.
	ErrAnswerSlots = errors.New("question does not carry three answer slots")
	// ErrRateLimited indicates the evidence source is rate limiting us.
	// Fatal: every later prediction would run on absent evidence.
	ErrRateLimited = errors.New("evidence source rate limiting detected")
)
