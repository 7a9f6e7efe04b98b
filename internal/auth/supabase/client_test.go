package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@example.com", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"token_type":    "bearer",
			"expires_in":    3600,
			"expires_at":    1900000000,
			"refresh_token": "refresh-1",
			"user":          map[string]string{"id": "user-a", "email": "a@example.com"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", time.Second)
	s, err := c.SignInWithPassword(context.Background(), "a@example.com", "hunter22")
	require.NoError(t, err)

	assert.Equal(t, "user-a", s.User.ID)
	tok := s.Token()
	assert.Equal(t, "access-1", tok.AccessToken)
	assert.Equal(t, "refresh-1", tok.RefreshToken)
	assert.Equal(t, time.Unix(1900000000, 0), tok.Expiry)
}

func TestSignInWithPassword_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", time.Second)
	_, err := c.SignInWithPassword(context.Background(), "a@example.com", "wrong")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.ClientError())
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
}

func TestSignUp_ConfirmationFlowReturnsUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"user-new","email":"new@example.com","confirmation_sent_at":"2026-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", time.Second)
	s, err := c.SignUp(context.Background(), "new@example.com", "hunter22")
	require.NoError(t, err)
	assert.Empty(t, s.AccessToken)
	assert.Equal(t, "user-new", s.User.ID)
}

func TestRefreshAndSignOut(t *testing.T) {
	var sawLogout bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
			_, _ = w.Write([]byte(`{"access_token":"access-2","refresh_token":"refresh-2","expires_in":3600}`))
		case "/auth/v1/logout":
			sawLogout = true
			assert.Equal(t, "Bearer access-2", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "anon-key", time.Second)
	tok, err := c.Refresh(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", tok.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Expiry, 5*time.Second)

	require.NoError(t, c.SignOut(context.Background(), "access-2"))
	assert.True(t, sawLogout)
}
