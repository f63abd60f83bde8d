package auth_test

import (
	"group-chat/auth"
	"group-chat/errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokens_IssueThenParse(t *testing.T) {
	req := require.New(t)
	tokens := auth.NewTokens("test-secret")

	token, err := tokens.Issue("user-123", time.Hour)
	req.NoError(err)

	userID, err := tokens.Parse(token)
	req.NoError(err)
	req.Equal("user-123", userID)
}

func TestTokens_Parse_Rejects(t *testing.T) {
	tokens := auth.NewTokens("test-secret")
	other := auth.NewTokens("another-secret")
	expired, err := tokens.Issue("user-123", -time.Minute)
	require.NoError(t, err)
	foreign, err := other.Issue("user-123", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "invalid-token-string"},
		{"expired", expired},
		{"signed with another secret", foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := tokens.Parse(tt.token)
			req.ErrorIs(err, errors.ErrInvalidToken)
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	t.Run("should prefer the cookie", func(t *testing.T) {
		req := require.New(t)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "from-cookie"})
		r.Header.Set("Authorization", "Bearer from-header")
		req.Equal("from-cookie", auth.TokenFromRequest(r))
	})

	t.Run("should fall back to the bearer header", func(t *testing.T) {
		req := require.New(t)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer from-header")
		req.Equal("from-header", auth.TokenFromRequest(r))
	})

	t.Run("should return empty without credentials", func(t *testing.T) {
		req := require.New(t)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Empty(auth.TokenFromRequest(r))
	})
}

func TestMiddleware(t *testing.T) {
	tokens := auth.NewTokens("test-secret")
	var seen string
	handler := tokens.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.UserIDFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("should reject a request without token", func(t *testing.T) {
		req := require.New(t)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		req.Equal(http.StatusUnauthorized, rec.Code)
	})

	t.Run("should inject the user id when the token is valid", func(t *testing.T) {
		req := require.New(t)
		token, err := tokens.Issue("user-42", time.Hour)
		req.NoError(err)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, r)

		req.Equal(http.StatusNoContent, rec.Code)
		req.Equal("user-42", seen)
	})
}
