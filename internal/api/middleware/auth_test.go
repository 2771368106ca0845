package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/api/shared"
	"github.com/phrazzld/vocab-srs/internal/mocks"
	"github.com/phrazzld/vocab-srs/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	learner := uuid.New()
	ok := &auth.Claims{UserID: learner}

	cases := []struct {
		name    string
		header  string
		claims  *auth.Claims
		fail    error
		status  int
		message string
	}{
		{"bearer token", "Bearer good", ok, nil, http.StatusOK, ""},
		{"scheme is case insensitive", "bearer good", ok, nil, http.StatusOK, ""},
		{"no header", "", nil, nil, http.StatusUnauthorized, "Authorization header required"},
		{"no scheme", "good", nil, nil, http.StatusUnauthorized, "Invalid authorization format"},
		{"basic scheme", "Basic dXNlcjpwdw==", nil, nil, http.StatusUnauthorized, "Invalid authorization format"},
		{"blank token", "Bearer   ", nil, nil, http.StatusUnauthorized, "Invalid authorization format"},
		{"expired", "Bearer old", nil, auth.ErrExpiredToken, http.StatusUnauthorized, "Token expired"},
		{"bad signature", "Bearer forged", nil, auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
		{"premature", "Bearer early", nil, auth.ErrTokenNotYetValid, http.StatusUnauthorized, "Invalid token"},
		{
			"wrapped token type", "Bearer refresh", nil,
			errors.Join(auth.ErrWrongTokenType, errors.New("type=refresh")),
			http.StatusUnauthorized, "Invalid token",
		},
		{"validator outage", "Bearer good", nil, errors.New("key store unavailable"), http.StatusInternalServerError, "Authentication error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mw := NewAuthMiddleware(&mocks.MockJWTService{Claims: tc.claims, ValidateErr: tc.fail})

			var seen uuid.UUID
			protected := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = GetUserID(r)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, learner, seen)
				return
			}
			assert.Equal(t, uuid.Nil, seen, "handler must not run")
			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.message, body.Error)
		})
	}
}

func TestAuthenticate_TrimsToken(t *testing.T) {
	t.Parallel()

	var got string
	mw := NewAuthMiddleware(&mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			got = token
			return &auth.Claims{UserID: uuid.New()}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
	req.Header.Set("Authorization", "Bearer  abc.def.ghi ")
	mw.Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "abc.def.ghi", got)
}

func TestNewAuthMiddleware_RequiresValidator(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewAuthMiddleware(nil) })
}
