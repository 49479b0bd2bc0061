package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/KirkDiggler/mindmeld/internal/api"
)

const defaultTimeout = 5 * time.Second

// Transport sends one request per call to the game server
//
//go:generate mockgen -package=mocks -destination=mocks/mock_transport.go github.com/KirkDiggler/mindmeld/internal/client Transport
type Transport interface {
	Create(ctx context.Context) (string, error)
	Join(ctx context.Context, gameCode, name string) (string, error)
	Ready(ctx context.Context, sc SessionContext) error
	Submit(ctx context.Context, sc SessionContext, answer string) error
	Next(ctx context.Context, sc SessionContext) error
	State(ctx context.Context, gameCode string) (*api.StateResponse, error)
}

// HTTPConfig holds the configuration for the HTTP transport
type HTTPConfig struct {
	// BaseURL is the server root, e.g. http://localhost:8080
	BaseURL string

	// Timeout bounds every request, defaultTimeout when 0
	Timeout time.Duration

	// HTTPClient overrides the client used, Timeout is ignored when set
	HTTPClient *http.Client
}

// HTTPTransport talks JSON to the game server
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTP creates a new HTTP transport
func NewHTTP(cfg *HTTPConfig) (*HTTPTransport, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("base url cannot be empty")
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPTransport{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  client,
	}, nil
}

func (t *HTTPTransport) Create(ctx context.Context) (string, error) {
	var resp api.CreateResponse
	if err := t.do(ctx, http.MethodPost, "/create", nil, &resp); err != nil {
		return "", err
	}
	return resp.GameCode, nil
}

func (t *HTTPTransport) Join(ctx context.Context, gameCode, name string) (string, error) {
	var resp api.JoinResponse
	err := t.do(ctx, http.MethodPost, "/join", &api.JoinRequest{Name: name, GameCode: gameCode}, &resp)
	if err != nil {
		return "", err
	}
	return resp.PlayerID, nil
}

func (t *HTTPTransport) Ready(ctx context.Context, sc SessionContext) error {
	var resp api.AckResponse
	return t.do(ctx, http.MethodPost, "/ready", &api.PlayerRequest{GameCode: sc.GameCode, PlayerID: sc.PlayerID}, &resp)
}

func (t *HTTPTransport) Submit(ctx context.Context, sc SessionContext, answer string) error {
	var resp api.AckResponse
	return t.do(ctx, http.MethodPost, "/submit", &api.SubmitRequest{
		GameCode: sc.GameCode,
		PlayerID: sc.PlayerID,
		Answer:   answer,
	}, &resp)
}

func (t *HTTPTransport) Next(ctx context.Context, sc SessionContext) error {
	var resp api.AckResponse
	return t.do(ctx, http.MethodPost, "/next", &api.PlayerRequest{GameCode: sc.GameCode, PlayerID: sc.PlayerID}, &resp)
}

func (t *HTTPTransport) State(ctx context.Context, gameCode string) (*api.StateResponse, error) {
	var resp api.StateResponse
	if err := t.do(ctx, http.MethodGet, "/state?game_code="+url.QueryEscape(gameCode), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends one request and decodes the reply into out. A reply carrying an
// error field becomes an *Error with the server's kind.
func (t *HTTPTransport) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindInternal, Message: fmt.Sprintf("failed to encode request: %v", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+endpoint, body)
	if err != nil {
		return &Error{Kind: KindInternal, Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	var failure api.Failure
	_ = json.Unmarshal(data, &failure)
	if failure.Failed() {
		return fromFailure(failure)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Kind: KindInternal, Message: fmt.Sprintf("server returned status %d", resp.StatusCode)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindInternal, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}

	return nil
}
