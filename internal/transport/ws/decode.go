package ws

import (
	"bytes"
	"encoding/json"
	"fmt"

	"hqtrivia-bot/internal/domain"
)

// Feed frames prefix the JSON payload with routing bytes; the payload
// starts at the first brace.
func payload(frame []byte) ([]byte, bool) {
	start := bytes.IndexByte(frame, '{')
	if start < 0 {
		return nil, false
	}
	return frame[start:], true
}

// DecodeEvent turns one raw frame into a typed event. The returned type
// string is the feed's own tag, kept for message logging. A nil event
// with a nil error means the frame carries nothing the session handles.
func DecodeEvent(frame []byte) (domain.Event, string, error) {
	data, ok := payload(frame)
	if !ok {
		return nil, "", nil
	}

	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, "", fmt.Errorf("decode event envelope: %w", err)
	}

	switch envelope.Type {
	case "gameStatus":
		var ev domain.GameStatus
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, envelope.Type, fmt.Errorf("decode gameStatus: %w", err)
		}
		return ev, envelope.Type, nil
	case "question":
		var ev domain.Question
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, envelope.Type, fmt.Errorf("decode question: %w", err)
		}
		// Interstitial question frames carry no answers; not playable.
		if len(ev.Answers) == 0 {
			return nil, envelope.Type, nil
		}
		return ev, envelope.Type, nil
	case "questionSummary":
		var ev domain.QuestionSummary
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, envelope.Type, fmt.Errorf("decode questionSummary: %w", err)
		}
		return ev, envelope.Type, nil
	case "gameSummary":
		var ev domain.GameSummary
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, envelope.Type, fmt.Errorf("decode gameSummary: %w", err)
		}
		return ev, envelope.Type, nil
	case "broadcastEnded":
		var ev domain.BroadcastEnded
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, envelope.Type, fmt.Errorf("decode broadcastEnded: %w", err)
		}
		return ev, envelope.Type, nil
	default:
		return nil, envelope.Type, nil
	}
}
