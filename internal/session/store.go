// Package session owns the client's authentication state: at most one
// authenticated user, the bearer token backing it, and the transitions
// between anonymous and authenticated. All mutation funnels through the
// Store's named operations; pages treat the state as read-only.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"acadconnect/internal/api"
	"acadconnect/internal/logging"
	"acadconnect/internal/model"
	"acadconnect/internal/validate"
)

// State is the session lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// ErrNotOwner is returned when an update targets a profile the session
// does not own. The check happens before any network call.
var ErrNotOwner = errors.New("you can only edit your own profile")

// Store is the single-instance session state machine. It feeds the API
// client's token source, so attaching a token here immediately affects
// every outgoing request.
type Store struct {
	mu     sync.Mutex
	client *api.Client
	tokens *TokenStore

	state  State
	token  string
	user   *model.User
	notice string
}

// NewStore wires a store to the API client and token persistence. The
// store starts uninitialized; call Bootstrap before relying on State.
func NewStore(client *api.Client, tokens *TokenStore) *Store {
	s := &Store{
		client: client,
		tokens: tokens,
		state:  StateUninitialized,
	}
	client.SetTokenSource(s.Token)
	return s
}

// Token returns the in-memory bearer token ("" when anonymous).
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentUser returns the authenticated user, if any.
func (s *Store) CurrentUser() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// Notice returns the pending dismissable banner text ("" when none).
func (s *Store) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// ClearNotice dismisses the banner.
func (s *Store) ClearNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = ""
}

// Bootstrap loads a persisted token, attaches it and validates it with
// GET /auth/me. A rejected token is discarded from every storage
// location and the session lands anonymous with a "session expired"
// notice; that path is not an error to the caller.
func (s *Store) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateLoading
	token := s.tokens.Load()
	s.token = token
	s.mu.Unlock()

	if token == "" {
		s.transition(StateAnonymous, nil, "")
		logging.Session("bootstrap: no persisted token, anonymous")
		return nil
	}

	user, err := s.client.Auth.CurrentUser(ctx)
	if err != nil {
		s.tokens.Clear()
		s.transition(StateAnonymous, nil, "Session expired. Please log in again.")
		logging.SessionWarn("bootstrap: persisted token rejected: %v", err)
		return nil
	}

	s.transition(StateAuthenticated, &user, "")
	logging.Session("bootstrap: authenticated as %s (%s)", user.Name, user.UserType)
	return nil
}

// Login exchanges credentials for a token, persists it and loads the
// full profile. On any failure the session stays anonymous and nothing
// is persisted.
func (s *Store) Login(ctx context.Context, creds model.Credentials) error {
	if errs := validate.Login(creds); !errs.Ok() {
		return errs
	}

	resp, err := s.client.Auth.Login(ctx, creds)
	if err != nil {
		s.transition(StateAnonymous, nil, "")
		return err
	}
	return s.adoptToken(ctx, resp)
}

// RegisterStudent creates a student account and loads its profile. The
// caller decides the post-registration destination; the store only
// reports success.
func (s *Store) RegisterStudent(ctx context.Context, reg model.Registration) error {
	if errs := validate.Registration(reg); !errs.Ok() {
		return errs
	}
	reg.UserType = model.UserTypeStudent
	resp, err := s.client.Auth.RegisterStudent(ctx, reg)
	if err != nil {
		return err
	}
	return s.adoptToken(ctx, resp)
}

// RegisterFaculty creates a faculty account and loads its profile.
func (s *Store) RegisterFaculty(ctx context.Context, reg model.Registration) error {
	if errs := validate.Registration(reg); !errs.Ok() {
		return errs
	}
	reg.UserType = model.UserTypeFaculty
	resp, err := s.client.Auth.RegisterFaculty(ctx, reg)
	if err != nil {
		return err
	}
	return s.adoptToken(ctx, resp)
}

// adoptToken validates, attaches and persists the token from a
// successful auth response, then populates the profile. A 2xx response
// with an empty or missing token is a failure, never a silent
// authenticated state.
func (s *Store) adoptToken(ctx context.Context, resp *api.AuthResponse) error {
	token := resp.Token()
	if token == "" {
		s.transition(StateAnonymous, nil, "")
		return fmt.Errorf("server response did not include an access token")
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.tokens.Save(token); err != nil {
		logging.SessionWarn("could not persist token: %v", err)
	}

	user, err := s.client.Auth.CurrentUser(ctx)
	if err != nil {
		// The credential works for login but not for /auth/me; treat it
		// as unusable rather than half-authenticating.
		s.tokens.Clear()
		s.transition(StateAnonymous, nil, "")
		return fmt.Errorf("load profile: %w", err)
	}

	s.transition(StateAuthenticated, &user, "")
	logging.Session("authenticated as %s (%s)", user.Name, user.UserType)
	return nil
}

// Logout clears the persisted token and the in-memory user
// unconditionally. Safe to call in any state.
func (s *Store) Logout() {
	s.tokens.Clear()
	s.transition(StateAnonymous, nil, "")
	logging.Session("logged out")
}

// UpdateProfile submits a full profile record for the given id. The
// caller must own the profile; otherwise the operation is refused here
// and no request is issued. On success the canonical record is left for
// the caller to re-fetch.
func (s *Store) UpdateProfile(ctx context.Context, id string, u model.User) (bool, error) {
	current, ok := s.CurrentUser()
	if !ok || current.ID != id {
		return false, ErrNotOwner
	}

	var err error
	switch current.UserType {
	case model.UserTypeFaculty:
		err = s.client.Faculty.Update(ctx, id, u)
	case model.UserTypeStudent:
		err = s.client.Students.Update(ctx, id, u)
	default:
		return false, fmt.Errorf("unknown user type %q", current.UserType)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) transition(state State, user *model.User, notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.user = user
	if state == StateAnonymous {
		s.token = ""
	}
	if notice != "" {
		s.notice = notice
	}
}
