package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acadconnect/internal/api"
	"acadconnect/internal/model"
)

const goodToken = "jwt-abc-123"

var testUser = model.User{
	ID:                "f1",
	UserType:          model.UserTypeFaculty,
	Name:              "Dr. Elena Vasquez",
	Email:             "elena@uni.edu",
	Department:        "Computer Science",
	Bio:               "Consensus protocols and storage systems.",
	ContactInfo:       "elena@uni.edu",
	ResearchInterests: []string{"Distributed Systems"},
	Position:          "Associate Professor",
}

// authBackend fakes the auth endpoints: login accepts one credential
// pair, /auth/me accepts goodToken.
func authBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds model.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Email != "elena@uni.edu" || creds.Password != "correct-horse" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "access_token": goodToken})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+goodToken {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Token is invalid"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "user": testUser})
	})
	return httptest.NewServer(mux)
}

func newTestStore(t *testing.T, baseURL string) (*Store, *TokenStore) {
	t.Helper()
	tokens := NewTokenStore(t.TempDir())
	client := api.New(baseURL, nil)
	return NewStore(client, tokens), tokens
}

func TestBootstrap_NoToken(t *testing.T) {
	srv := authBackend(t)
	defer srv.Close()

	store, _ := newTestStore(t, srv.URL)
	require.NoError(t, store.Bootstrap(context.Background()))

	assert.Equal(t, StateAnonymous, store.State())
	_, ok := store.CurrentUser()
	assert.False(t, ok)
	assert.Empty(t, store.Notice())
}

func TestBootstrap_ValidToken(t *testing.T) {
	srv := authBackend(t)
	defer srv.Close()

	store, tokens := newTestStore(t, srv.URL)
	require.NoError(t, tokens.Save(goodToken))

	require.NoError(t, store.Bootstrap(context.Background()))

	assert.Equal(t, StateAuthenticated, store.State())
	user, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Dr. Elena Vasquez", user.Name)
	assert.Equal(t, goodToken, store.Token())
}

func TestBootstrap_RejectedTokenLandsAnonymous(t *testing.T) {
	srv := authBackend(t)
	defer srv.Close()

	store, tokens := newTestStore(t, srv.URL)
	require.NoError(t, tokens.Save("stale-token"))

	// A rejected token is not an error to the caller.
	require.NoError(t, store.Bootstrap(context.Background()))

	assert.Equal(t, StateAnonymous, store.State())
	assert.Empty(t, store.Token())
	assert.Equal(t, "Session expired. Please log in again.", store.Notice())

	// The bad token is gone from disk; the next run boots clean.
	assert.Empty(t, tokens.Load())
}

func TestLogin_Success(t *testing.T) {
	srv := authBackend(t)
	defer srv.Close()

	store, tokens := newTestStore(t, srv.URL)
	creds := model.Credentials{Email: "elena@uni.edu", Password: "correct-horse"}
	require.NoError(t, store.Login(context.Background(), creds))

	assert.Equal(t, StateAuthenticated, store.State())
	user, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "f1", user.ID)
	assert.Equal(t, goodToken, tokens.Load())
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := authBackend(t)
	defer srv.Close()

	store, tokens := newTestStore(t, srv.URL)
	creds := model.Credentials{Email: "elena@uni.edu", Password: "wrong"}
	err := store.Login(context.Background(), creds)

	require.Error(t, err)
	assert.Equal(t, StateAnonymous, store.State())
	assert.Empty(t, tokens.Load())
}

func TestLogin_ValidationBlocksNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	store, _ := newTestStore(t, srv.URL)
	err := store.Login(context.Background(), model.Credentials{Email: "not-an-address", Password: ""})

	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "invalid credentials must not reach the network")
}

func TestLogin_EmptyTokenInSuccessResponse(t *testing.T) {
	// A 2xx login whose body carries no usable token must fail, not
	// half-authenticate.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "access_token": "   "})
	}))
	defer srv.Close()

	store, tokens := newTestStore(t, srv.URL)
	creds := model.Credentials{Email: "elena@uni.edu", Password: "correct-horse"}
	err := store.Login(context.Background(), creds)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token")
	assert.Equal(t, StateAnonymous, store.State())
	assert.Empty(t, store.Token())
	assert.Empty(t, tokens.Load())
}

func TestLogin_AlternateTokenKey(t *testing.T) {
	// Registration responses spell the token accessToken; both spellings
	// must authenticate.
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "accessToken": goodToken})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "user": testUser})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store, _ := newTestStore(t, srv.URL)
	creds := model.Credentials{Email: "elena@uni.edu", Password: "correct-horse"}
	require.NoError(t, store.Login(context.Background(), creds))
	assert.Equal(t, goodToken, store.Token())
}

func TestLogin_ProfileLoadFailureDiscardsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "access_token": goodToken})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store, tokens := newTestStore(t, srv.URL)
	creds := model.Credentials{Email: "elena@uni.edu", Password: "correct-horse"}
	err := store.Login(context.Background(), creds)

	require.Error(t, err)
	assert.Equal(t, StateAnonymous, store.State())
	assert.Empty(t, tokens.Load(), "unusable token must not persist")
}

func TestLogout_Idempotent(t *testing.T) {
	srv := authBackend(t)
	defer srv.Close()

	store, tokens := newTestStore(t, srv.URL)
	creds := model.Credentials{Email: "elena@uni.edu", Password: "correct-horse"}
	require.NoError(t, store.Login(context.Background(), creds))

	store.Logout()
	assert.Equal(t, StateAnonymous, store.State())
	assert.Empty(t, store.Token())
	assert.Empty(t, tokens.Load())

	// Again, from the anonymous state.
	store.Logout()
	assert.Equal(t, StateAnonymous, store.State())
}

func TestUpdateProfile_RefusesNonOwnerBeforeNetwork(t *testing.T) {
	var updateHits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "access_token": goodToken})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "user": testUser})
	})
	mux.HandleFunc("/faculty/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&updateHits, 1)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Profile updated"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store, _ := newTestStore(t, srv.URL)
	creds := model.Credentials{Email: "elena@uni.edu", Password: "correct-horse"}
	require.NoError(t, store.Login(context.Background(), creds))

	ok, err := store.UpdateProfile(context.Background(), "someone-else", testUser)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, int32(0), atomic.LoadInt32(&updateHits))

	// The owner's own id goes through.
	ok, err = store.UpdateProfile(context.Background(), "f1", testUser)
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&updateHits))
}

func TestUpdateProfile_AnonymousRefused(t *testing.T) {
	srv := authBackend(t)
	defer srv.Close()

	store, _ := newTestStore(t, srv.URL)
	require.NoError(t, store.Bootstrap(context.Background()))

	ok, err := store.UpdateProfile(context.Background(), "f1", testUser)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestTokenStore_PrimaryAndLegacyFallback(t *testing.T) {
	dir := t.TempDir()
	tokens := NewTokenStore(dir)

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, tokens.Load())
	})

	t.Run("legacy fallback", func(t *testing.T) {
		legacy := filepath.Join(dir, "credentials.json")
		require.NoError(t, os.WriteFile(legacy, []byte(`{"token":"legacy-tok"}`), 0600))
		assert.Equal(t, "legacy-tok", tokens.Load())
	})

	t.Run("save prefers primary and removes legacy", func(t *testing.T) {
		require.NoError(t, tokens.Save("fresh-tok"))
		assert.Equal(t, "fresh-tok", tokens.Load())
		_, err := os.Stat(filepath.Join(dir, "credentials.json"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("env override wins", func(t *testing.T) {
		t.Setenv("ACAD_TOKEN", "env-tok")
		assert.Equal(t, "env-tok", tokens.Load())
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		tokens.Clear()
		tokens.Clear()
		assert.Empty(t, tokens.Load())
	})
}
