// Package ws consumes the broadcast's ordered event feed over a
// websocket connection.
package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"hqtrivia-bot/internal/domain"
)

// ErrConnectionLost marks a transport-level failure; the outer session
// loop reconnects on it instead of aborting the run.
var ErrConnectionLost = errors.New("broadcast connection lost")

// Frame types never written to the message log.
var hiddenTypes = map[string]struct{}{
	"interaction":    {},
	"broadcastStats": {},
	"kicked":         {},
}

// Client reads frames from the broadcast socket, decodes them and hands
// typed events to the session in arrival order.
type Client struct {
	dialer     *websocket.Dialer
	headers    http.Header
	messageLog io.Writer
}

// NewClient builds a Client; messageLog may be nil to disable the raw
// frame log.
func NewClient(headers http.Header, messageLog io.Writer) *Client {
	return &Client{
		dialer:     websocket.DefaultDialer,
		headers:    headers,
		messageLog: messageLog,
	}
}

// Consume dials the socket and feeds events to handle until finished
// reports a clean end. A dropped connection returns ErrConnectionLost;
// every handler error is returned as-is and is fatal to the run.
func (c *Client) Consume(ctx context.Context, socketURL string, handle func(domain.Event) error, finished func() bool) error {
	conn, _, err := c.dialer.DialContext(ctx, socketURL, c.headers)
	if err != nil {
		return fmt.Errorf("dial %s: %w", socketURL, ErrConnectionLost)
	}
	defer conn.Close()
	log.Printf("connected to %s", socketURL)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if finished() {
				return nil
			}
			return fmt.Errorf("read frame: %v: %w", err, ErrConnectionLost)
		}

		event, frameType, err := DecodeEvent(frame)
		if err != nil {
			// Malformed payloads are dropped, never fatal.
			log.Printf("bad frame: %v", err)
			continue
		}
		c.logFrame(event, frameType, frame)
		if event == nil {
			continue
		}
		if err := handle(event); err != nil {
			return err
		}
		if finished() {
			return nil
		}
	}
}

func (c *Client) logFrame(event domain.Event, frameType string, frame []byte) {
	if c.messageLog == nil || frameType == "" {
		return
	}
	if _, hidden := hiddenTypes[frameType]; hidden {
		return
	}
	if status, ok := event.(domain.GameStatus); ok {
		fmt.Fprintf(c.messageLog, "NEW GAME: %s\n", domain.RoundID(status.StartedAt, status.ShowID))
	}
	fmt.Fprintf(c.messageLog, "MESSAGE: %s\n", frame)
}
