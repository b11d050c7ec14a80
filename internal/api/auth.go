package api

import (
	"context"
	"strings"

	"acadconnect/internal/model"
)

// AuthService groups the /auth endpoints.
type AuthService struct {
	c *Client
}

// AuthResponse is the body of a successful login or registration. The
// backend sends the token as access_token on login and accessToken on
// the register routes, so both keys are decoded.
type AuthResponse struct {
	Success        bool        `json:"success"`
	AccessToken    string      `json:"access_token"`
	AccessTokenAlt string      `json:"accessToken"`
	RefreshToken   string      `json:"refresh_token"`
	Message        string      `json:"message"`
	User           *model.User `json:"user,omitempty"`
}

// Token returns the bearer token from whichever key the server used,
// trimmed. Empty means the response carried no usable credential.
func (r *AuthResponse) Token() string {
	if t := strings.TrimSpace(r.AccessToken); t != "" {
		return t
	}
	return strings.TrimSpace(r.AccessTokenAlt)
}

// Login exchanges credentials for a bearer token.
func (s *AuthService) Login(ctx context.Context, creds model.Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := s.c.post(ctx, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterStudent creates a student account and returns its token.
func (s *AuthService) RegisterStudent(ctx context.Context, reg model.Registration) (*AuthResponse, error) {
	var out AuthResponse
	if err := s.c.post(ctx, "/auth/register/student", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterFaculty creates a faculty account and returns its token.
func (s *AuthService) RegisterFaculty(ctx context.Context, reg model.Registration) (*AuthResponse, error) {
	var out AuthResponse
	if err := s.c.post(ctx, "/auth/register/faculty", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser fetches the profile belonging to the attached token.
func (s *AuthService) CurrentUser(ctx context.Context) (model.User, error) {
	var out struct {
		Success bool       `json:"success"`
		User    model.User `json:"user"`
	}
	if err := s.c.get(ctx, "/auth/me", &out); err != nil {
		return model.User{}, err
	}
	return out.User, nil
}

// Refresh trades the current token for a fresh access token.
func (s *AuthService) Refresh(ctx context.Context) (*AuthResponse, error) {
	var out AuthResponse
	if err := s.c.post(ctx, "/auth/refresh", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
