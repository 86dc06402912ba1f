package ws

import (
	"strings"
	"testing"

	"hqtrivia-bot/internal/domain"
)

func TestDecodeEventSkipsFramePrefix(t *testing.T) {
	frame := []byte(`42["message",{"type":"gameStatus","showId":7041,"ts":"2018-03-12T20:00:00.000Z","prize":"$5,000","questionCount":12}`)
	event, frameType, err := DecodeEvent(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if frameType != "gameStatus" {
		t.Fatalf("expected gameStatus tag, got %q", frameType)
	}
	status, ok := event.(domain.GameStatus)
	if !ok {
		t.Fatalf("expected GameStatus, got %T", event)
	}
	if status.ShowID != 7041 || status.QuestionCount != 12 {
		t.Fatalf("unexpected payload %+v", status)
	}
}

func TestDecodeEventQuestion(t *testing.T) {
	frame := []byte(`{"type":"question","questionId":101,"questionNumber":1,"category":"Geography","question":"Which river is longest?","answers":[{"text":"Nile"},{"text":"Amazon"},{"text":"Yangtze"}]}`)
	event, _, err := DecodeEvent(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	question, ok := event.(domain.Question)
	if !ok {
		t.Fatalf("expected Question, got %T", event)
	}
	if question.QuestionID != 101 || len(question.Answers) != 3 || question.Answers[1].Text != "Amazon" {
		t.Fatalf("unexpected payload %+v", question)
	}
}

func TestDecodeEventQuestionWithoutAnswersIsDropped(t *testing.T) {
	frame := []byte(`{"type":"question","questionId":101,"question":"stand by"}`)
	event, frameType, err := DecodeEvent(frame)
	if err != nil || event != nil {
		t.Fatalf("expected dropped frame, got event=%v err=%v", event, err)
	}
	if frameType != "question" {
		t.Fatalf("tag must survive for logging, got %q", frameType)
	}
}

func TestDecodeEventSummaryAndEnd(t *testing.T) {
	frame := []byte(`{"type":"questionSummary","questionId":101,"answerCounts":[{"answer":"Nile","count":10},{"answer":"Amazon","count":70,"correct":true},{"answer":"Yangtze","count":5}]}`)
	event, _, err := DecodeEvent(frame)
	if err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	summary, ok := event.(domain.QuestionSummary)
	if !ok || !summary.AnswerCounts[1].Correct {
		t.Fatalf("unexpected summary %+v", event)
	}

	event, _, err = DecodeEvent([]byte(`{"type":"broadcastEnded","reason":"server restart"}`))
	if err != nil {
		t.Fatalf("decode end: %v", err)
	}
	ended, ok := event.(domain.BroadcastEnded)
	if !ok || ended.Reason != "server restart" {
		t.Fatalf("unexpected end event %+v", event)
	}
}

func TestDecodeEventUnknownTypeIgnored(t *testing.T) {
	event, frameType, err := DecodeEvent([]byte(`{"type":"broadcastStats","viewers":12000}`))
	if err != nil || event != nil {
		t.Fatalf("unknown types must be ignored, got event=%v err=%v", event, err)
	}
	if frameType != "broadcastStats" {
		t.Fatalf("expected tag broadcastStats, got %q", frameType)
	}
}

func TestDecodeEventMalformedPayload(t *testing.T) {
	_, _, err := DecodeEvent([]byte(`{"type":"gameStatus","showId":`))
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDecodeEventNoPayload(t *testing.T) {
	event, frameType, err := DecodeEvent([]byte("3"))
	if event != nil || frameType != "" || err != nil {
		t.Fatalf("frames without payload are ignored, got %v %q %v", event, frameType, err)
	}
}
