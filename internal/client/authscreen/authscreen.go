// Package authscreen is the owner sign-in/sign-up screen, independent of any
// particular front end.
//
// A Screen is either unauthenticated (showing the login or signup form) or
// authenticated (holding a token). Every transition that changes the token
// is persisted through the state store before it becomes visible.
package authscreen

import (
	"context"
	"errors"
	"sync"

	"github.com/sehyaatri/sehyaatri/internal/client"
	"github.com/sehyaatri/sehyaatri/internal/client/state"
)

// FeedbackPath is the protected listing an authenticated owner may open.
const FeedbackPath = "/api/feedback"

var (
	ErrBusy            = errors.New("authscreen: a submission is already in flight")
	ErrNotSignedIn     = errors.New("authscreen: not signed in")
	ErrUnknownLanguage = errors.New("authscreen: unknown language")
)

type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

func (m Mode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

// API is the part of the client the screen talks to.
type API interface {
	Signup(ctx context.Context, email, password, name string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ListFeedback(ctx context.Context, token string) ([]client.FeedbackItem, error)
}

// StateStore persists client state.
type StateStore interface {
	Load() (state.State, error)
	Save(state.State) error
}

type Screen struct {
	api   API
	store StateStore

	mu       sync.Mutex
	st       state.State
	mode     Mode
	email    string
	password string
	name     string
	busy     bool
	errMsg   string
}

// New loads the persisted state. A screen whose state already holds a token
// starts authenticated.
func New(api API, store StateStore) (*Screen, error) {
	st, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Screen{api: api, store: store, st: st}, nil
}

func (s *Screen) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches forms. Entered fields are kept.
func (s *Screen) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

// Toggle flips between login and signup.
func (s *Screen) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeLogin {
		s.mode = ModeSignup
	} else {
		s.mode = ModeLogin
	}
}

func (s *Screen) SetEmail(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = v
}

func (s *Screen) SetPassword(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.password = v
}

func (s *Screen) SetName(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = v
}

// Email returns the entered email.
func (s *Screen) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// Error is the message from the last failed submission, or "".
func (s *Screen) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *Screen) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Screen) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.SignedIn()
}

// State returns a copy of the current client state.
func (s *Screen) State() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// Submit sends the current form. Only one submission may be in flight.
//
// On success the token is persisted, the screen becomes authenticated and
// the password field is cleared. On failure the server's message is kept in
// Error() and the mode and fields are left as they were.
func (s *Screen) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.errMsg = ""
	mode, email, password, name := s.mode, s.email, s.password, s.name
	s.mu.Unlock()

	var (
		token string
		err   error
	)
	if mode == ModeSignup {
		token, err = s.api.Signup(ctx, email, password, name)
	} else {
		token, err = s.api.Login(ctx, email, password)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err == nil {
		next := s.st
		next.Token = token
		if err = s.store.Save(next); err == nil {
			s.st = next
			s.password = ""
			return nil
		}
	}

	s.errMsg = errorMessage(err)
	return err
}

// SignOut discards the token locally. The server is not told; the token
// stays valid until it expires.
func (s *Screen) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	next.Token = ""
	if err := s.store.Save(next); err != nil {
		return err
	}
	s.st = next
	s.errMsg = ""
	return nil
}

// SetLanguage changes and persists the display language.
func (s *Screen) SetLanguage(lang string) error {
	if !state.ValidLanguage(lang) {
		return ErrUnknownLanguage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	next.Language = lang
	if err := s.store.Save(next); err != nil {
		return err
	}
	s.st = next
	return nil
}

// FeedbackLink returns the listing path, available only when signed in.
func (s *Screen) FeedbackLink() (string, bool) {
	if !s.Authenticated() {
		return "", false
	}
	return FeedbackPath, true
}

// ListFeedback fetches the owner listing with the stored token.
func (s *Screen) ListFeedback(ctx context.Context) ([]client.FeedbackItem, error) {
	st := s.State()
	if !st.SignedIn() {
		return nil, ErrNotSignedIn
	}
	return s.api.ListFeedback(ctx, st.Token)
}

func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Error"
}
