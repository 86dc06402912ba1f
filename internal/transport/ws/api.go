package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// NextShow describes the upcoming broadcast when none is live.
type NextShow struct {
	Time  string
	Prize string
}

// ShowsAPI looks up the live broadcast's socket URL.
type ShowsAPI struct {
	client  *http.Client
	baseURL string
	userID  string
	headers http.Header
}

func NewShowsAPI(client *http.Client, baseURL, userID string, headers http.Header) *ShowsAPI {
	if client == nil {
		client = http.DefaultClient
	}
	return &ShowsAPI{client: client, baseURL: baseURL, userID: userID, headers: headers}
}

// SocketURL returns the websocket URL of the live broadcast. When no
// broadcast is live it returns an empty URL and, where the API supplied
// one, the next show's schedule.
func (a *ShowsAPI) SocketURL(ctx context.Context) (string, *NextShow, error) {
	url := fmt.Sprintf("%s/shows/now?type=hq&userId=%s", a.baseURL, a.userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("build shows request: %w", err)
	}
	for key, values := range a.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("query shows: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		NextShowTime  string `json:"nextShowTime"`
		NextShowPrize string `json:"nextShowPrize"`
		Broadcast     *struct {
			SocketURL string `json:"socketUrl"`
		} `json:"broadcast"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", nil, fmt.Errorf("decode shows response: %w", err)
	}

	if body.Broadcast == nil || body.Broadcast.SocketURL == "" {
		return "", &NextShow{Time: body.NextShowTime, Prize: body.NextShowPrize}, nil
	}
	return strings.Replace(body.Broadcast.SocketURL, "https", "wss", 1), nil, nil
}
