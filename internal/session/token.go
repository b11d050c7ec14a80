package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore persists the bearer token across runs. The browser client
// kept the token in a cookie with a localStorage fallback; here that is
// a primary token file plus a legacy credentials.json fallback, reads
// preferring the primary. Writes go to the primary and clear the
// fallback so the two can never disagree.
type TokenStore struct {
	mu       sync.Mutex
	primary  string
	fallback string
}

// legacyCredentials is the shape of the old credentials.json file.
type legacyCredentials struct {
	Token string `json:"token"`
}

// NewTokenStore creates a store rooted at the given state directory
// (normally ~/.acadconnect).
func NewTokenStore(stateDir string) *TokenStore {
	return &TokenStore{
		primary:  filepath.Join(stateDir, "token"),
		fallback: filepath.Join(stateDir, "credentials.json"),
	}
}

// Load returns the persisted token, or "" when none is stored. The
// ACAD_TOKEN environment variable overrides both files, for CI and
// scripted use.
func (t *TokenStore) Load() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if token := strings.TrimSpace(os.Getenv("ACAD_TOKEN")); token != "" {
		return token
	}
	if data, err := os.ReadFile(t.primary); err == nil {
		if token := strings.TrimSpace(string(data)); token != "" {
			return token
		}
	}
	if data, err := os.ReadFile(t.fallback); err == nil {
		var creds legacyCredentials
		if err := json.Unmarshal(data, &creds); err == nil {
			return strings.TrimSpace(creds.Token)
		}
	}
	return ""
}

// Save writes the token to the primary file and removes the fallback.
func (t *TokenStore) Save(token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(t.primary), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(t.primary, []byte(token+"\n"), 0600); err != nil {
		return err
	}
	_ = os.Remove(t.fallback)
	return nil
}

// Clear removes both storage locations. Idempotent.
func (t *TokenStore) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = os.Remove(t.primary)
	_ = os.Remove(t.fallback)
}
