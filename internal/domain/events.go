package domain

// Event is one typed message read from the broadcast feed. The session
// state machine dispatches on the concrete variant; there is no string
// dispatch past the transport's decoder.
type Event interface {
	isEvent()
}

// GameStatus announces a round. Delivered once per round but the feed may
// repeat it; handling is idempotent.
type GameStatus struct {
	ShowID        int64  `json:"showId"`
	StartedAt     string `json:"ts"`
	Prize         string `json:"prize"`
	QuestionCount int    `json:"questionCount"`
}

// AnswerOption is one candidate answer as delivered by the feed.
type AnswerOption struct {
	Text string `json:"text"`
}

// Question delivers one question with its candidate answers.
type Question struct {
	QuestionID int64          `json:"questionId"`
	Number     int            `json:"questionNumber"`
	Category   string         `json:"category"`
	Text       string         `json:"question"`
	Answers    []AnswerOption `json:"answers"`
}

// AnswerSummary is one answer's tally in a question summary; exactly one
// entry per question carries the correct flag.
type AnswerSummary struct {
	Answer  string `json:"answer"`
	Count   int    `json:"count"`
	Correct bool   `json:"correct"`
}

// QuestionSummary reveals the correct answer for a question.
type QuestionSummary struct {
	QuestionID   int64           `json:"questionId"`
	AnswerCounts []AnswerSummary `json:"answerCounts"`
}

// Winner is one winning player in a game summary.
type Winner struct {
	Name  string `json:"name"`
	Wins  int    `json:"wins"`
	Prize string `json:"prize"`
}

// GameSummary closes a round; read-only reporting, no record mutation.
type GameSummary struct {
	WinnerCount int      `json:"numWinners"`
	Winners     []Winner `json:"winners"`
}

// BroadcastEnded signals the end of the broadcast. A non-empty Reason
// means abnormal termination and is handled as a retryable disconnect by
// the transport, not as a clean end.
type BroadcastEnded struct {
	Reason string `json:"reason"`
}

func (GameStatus) isEvent()      {}
func (Question) isEvent()        {}
func (QuestionSummary) isEvent() {}
func (GameSummary) isEvent()     {}
func (BroadcastEnded) isEvent()  {}
