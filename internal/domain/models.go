package domain

import "fmt"

// Slot identifies one of the three answer positions of a question.
type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"
	SlotC Slot = "C"
)

// Slots is the fixed presentation order. It doubles as the tie-break
// total order: among equal confidences the earliest slot wins.
var Slots = []Slot{SlotA, SlotB, SlotC}

// AnswerCount is how many answer slots a question must carry.
const AnswerCount = 3

// RoundID derives the round identifier from the broadcast start
// timestamp and the show id, e.g. "2018-03-12-game-7041".
func RoundID(startedAt string, showID int64) string {
	date := startedAt
	if len(date) > 10 {
		date = date[:10]
	}
	return fmt.Sprintf("%s-game-%d", date, showID)
}

// Occurrences holds one evidence signal's raw per-slot counts.
type Occurrences map[Slot]int64

// Total sums the counts across all slots.
func (o Occurrences) Total() int64 {
	var total int64
	for _, count := range o {
		total += count
	}
	return total
}

// EvidenceBundle carries the raw counts each of the three signal sources
// produced for one question. It is persisted with the question record so
// replay can re-run the aggregator without touching the network.
type EvidenceBundle struct {
	AnswerMatches  Occurrences `json:"answerMatches"`
	ResultCounts   Occurrences `json:"resultCounts"`
	KeywordMatches Occurrences `json:"keywordMatches"`
}

// Prediction is the engine's verdict for one question. A nil Answer means
// the engine abstained because the combined evidence was zero. Confidence
// percentages are floor-truncated per slot and may sum to less than 100.
type Prediction struct {
	Answer     *Slot        `json:"answer"`
	Confidence map[Slot]int `json:"confidence"`
}

// QuestionRecord is one question of a round together with its prediction
// and, once the summary arrived, the ground-truth correct slot.
type QuestionRecord struct {
	QuestionID int64           `json:"questionId"`
	Number     int             `json:"questionNumber"`
	Category   string          `json:"category"`
	Text       string          `json:"question"`
	Answers    map[Slot]string `json:"answers"`
	Prediction Prediction      `json:"prediction"`
	Evidence   *EvidenceBundle `json:"evidence,omitempty"`
	Correct    *Slot           `json:"correct,omitempty"`
	Replay     bool            `json:"isReplay,omitempty"`
}

// GameRecord is the persisted state of one trivia round.
type GameRecord struct {
	ID            string           `json:"id"`
	ShowID        int64            `json:"showId"`
	StartedAt     string           `json:"ts"`
	Prize         string           `json:"prize"`
	QuestionCount int              `json:"questionCount"`
	NumCorrect    int              `json:"numCorrect"`
	Questions     []QuestionRecord `json:"questions"`
}

// Question returns the record for the given question id, or nil.
func (g *GameRecord) Question(questionID int64) *QuestionRecord {
	for i := range g.Questions {
		if g.Questions[i].QuestionID == questionID {
			return &g.Questions[i]
		}
	}
	return nil
}

// ReferencePage is the fetched reference article for one answer.
// Resolved is false when the lookup landed on a search page instead of
// a direct article.
type ReferencePage struct {
	Resolved bool
	Body     string
}
