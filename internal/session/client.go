package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrorKind classifies admission API failures so callers (and any future
// retry policy) never have to match on message strings.
type ErrorKind int

const (
	KindBadRequest ErrorKind = iota
	KindNotFound
	KindTimeout
	KindNetwork
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	default:
		return "server"
	}
}

// APIError is a classified admission API failure.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("admission api: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("admission api: %s: %s", e.Kind, e.Message)
}

// CreatedMeeting is the create-room response.
type CreatedMeeting struct {
	Room     string `json:"room"`
	Passcode string `json:"passcode"`
}

// TokenGrant is the token response.
type TokenGrant struct {
	Token string `json:"token"`
	URL   string `json:"url"`
	Room  string `json:"room"`
}

// DefaultRequestTimeout bounds every admission call. The original client
// had no timeout at all; a hung server froze the join flow forever.
const DefaultRequestTimeout = 10 * time.Second

// Client talks to the session admission API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateRoom requests a fresh room and passcode.
func (c *Client) CreateRoom(ctx context.Context, identity string) (*CreatedMeeting, error) {
	var resp CreatedMeeting
	if err := c.post(ctx, "/create-room", map[string]string{"identity": identity}, &resp); err != nil {
		return nil, err
	}
	if resp.Room == "" || resp.Passcode == "" {
		return nil, &APIError{Kind: KindServer, Message: "malformed create-room response"}
	}
	return &resp, nil
}

// JoinRoom resolves a passcode to a room identifier.
func (c *Client) JoinRoom(ctx context.Context, passcode, identity string) (string, error) {
	var resp struct {
		Room string `json:"room"`
	}
	body := map[string]string{"passcode": passcode, "identity": identity}
	if err := c.post(ctx, "/join-room", body, &resp); err != nil {
		return "", err
	}
	if resp.Room == "" {
		return "", &APIError{Kind: KindServer, Message: "malformed join-room response"}
	}
	return resp.Room, nil
}

// Token mints a join credential for the given room and identity.
func (c *Client) Token(ctx context.Context, room, identity string) (*TokenGrant, error) {
	var resp TokenGrant
	body := map[string]string{"room": room, "identity": identity}
	if err := c.post(ctx, "/token", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &APIError{Kind: KindServer, Message: "malformed token response"}
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &APIError{Kind: KindBadRequest, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: KindServer, Status: resp.StatusCode, Message: "malformed response body"}
	}
	return nil
}

func classifyTransportError(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Kind: KindTimeout, Message: "request timed out"}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &APIError{Kind: KindTimeout, Message: "request timed out"}
	}
	return &APIError{Kind: KindNetwork, Message: err.Error()}
}

func classifyStatus(resp *http.Response) *APIError {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	kind := KindServer
	switch resp.StatusCode {
	case http.StatusBadRequest:
		kind = KindBadRequest
	case http.StatusNotFound:
		kind = KindNotFound
	}
	return &APIError{Kind: kind, Status: resp.StatusCode, Message: body.Error}
}
