// Package client is a Go client for the SehYaatri feedback API.
//
// The client sets no timeouts of its own and never retries; callers bound
// each call with their context.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned by calls that need a bearer token when none is held.
var ErrNoToken = errors.New("client: not signed in")

// APIError is a non-2xx response. Message is the server's human-readable
// text, suitable for showing inline.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// FeedbackItem is one entry of the owner listing.
type FeedbackItem struct {
	ID        int64           `json:"id"`
	UserEmail *string         `json:"userEmail"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signup registers an owner account and returns its token.
func (c *Client) Signup(ctx context.Context, email, password, name string) (string, error) {
	var out tokenResponse
	err := c.do(ctx, c.http, http.MethodPost, "/api/auth/signup",
		credentials{Email: email, Password: password, Name: name}, &out)
	return out.Token, err
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	err := c.do(ctx, c.http, http.MethodPost, "/api/auth/login",
		credentials{Email: email, Password: password}, &out)
	return out.Token, err
}

type submitRequest struct {
	Payload any    `json:"payload"`
	Email   string `json:"email,omitempty"`
}

// SubmitFeedback posts payload anonymously; email may be empty.
func (c *Client) SubmitFeedback(ctx context.Context, payload any, email string) error {
	return c.do(ctx, c.http, http.MethodPost, "/api/feedback",
		submitRequest{Payload: payload, Email: email}, nil)
}

// ListFeedback fetches the owner listing, newest first.
func (c *Client) ListFeedback(ctx context.Context, token string) ([]FeedbackItem, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	// oauth2.NewClient layers the Authorization header over the transport
	// of whatever *http.Client the context carries.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))

	var out struct {
		Feedback []FeedbackItem `json:"feedback"`
	}
	if err := c.do(ctx, authed, http.MethodGet, "/api/feedback", nil, &out); err != nil {
		return nil, err
	}
	return out.Feedback, nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil {
			apiErr.Type, apiErr.Message = e.Error, e.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decoding %s response: %w", path, err)
	}
	return nil
}
