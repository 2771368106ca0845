package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/api/shared"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLists(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	lists := []domain.WordList{
		{ID: uuid.New(), UserID: f.userID, Name: "French A1", CreatedAt: testNow},
		{ID: uuid.New(), UserID: f.userID, Name: "French A2", Description: "verbs", CreatedAt: testNow},
	}
	f.reviews.ListsFn = func(context.Context, uuid.UUID) ([]domain.WordList, error) { return lists, nil }
	f.reviews.SuggestedListsFn = func(context.Context, uuid.UUID) ([]domain.WordList, error) {
		return lists[1:], nil
	}

	rec := f.do(t, http.MethodGet, "/api/lists", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeBody[[]WordListResponse](t, rec)
	require.Len(t, all, 2)
	assert.Equal(t, "French A1", all[0].Name)

	rec = f.do(t, http.MethodGet, "/api/lists/suggested", "")
	require.Equal(t, http.StatusOK, rec.Code)
	suggested := decodeBody[[]WordListResponse](t, rec)
	require.Len(t, suggested, 1)
	assert.Equal(t, lists[1].ID, suggested[0].ID)
	assert.Equal(t, "verbs", suggested[0].Description)
}

func TestLists_EmptyIsArray(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.reviews.ListsFn = func(context.Context, uuid.UUID) ([]domain.WordList, error) { return nil, nil }

	rec := f.do(t, http.MethodGet, "/api/lists", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateList(t *testing.T) {
	t.Parallel()

	validBody := `{"name":" French A1 ","words":[
		{"term":"chat","definition":"cat","part_of_speech":"noun"},
		{"term":" chien ","definition":"dog","example":"Le chien aboie."}]}`

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedError  string
	}{
		{name: "created", body: validBody, expectedStatus: http.StatusCreated},
		{
			name:           "duplicate name",
			body:           validBody,
			serviceErr:     store.ErrListExists,
			expectedStatus: http.StatusConflict,
			expectedError:  "A word list with this name already exists",
		},
		{
			name:           "rejected by store",
			body:           validBody,
			serviceErr:     errors.Join(store.ErrInvalidEntity, domain.ErrEmptyWordTerm),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing name",
			body:           `{"words":[{"term":"chat","definition":"cat"}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid name: required field",
		},
		{
			name:           "no words",
			body:           `{"name":"French","words":[]}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid words: too small",
		},
		{
			name:           "word without definition",
			body:           `{"name":"French","words":[{"term":"chat"}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid definition: required field",
		},
		{
			name:           "unknown field",
			body:           `{"name":"French","owner":"someone","words":[{"term":"chat","definition":"cat"}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newAPIFixture(t)
			var gotList *domain.WordList
			var gotWords []domain.Word
			f.reviews.CreateListFn = func(_ context.Context, list *domain.WordList, words []domain.Word) error {
				gotList, gotWords = list, words
				if tc.serviceErr != nil {
					return tc.serviceErr
				}
				list.ID = uuid.New()
				list.CreatedAt = testNow
				return nil
			}

			rec := f.do(t, http.MethodPost, "/api/lists", tc.body)

			require.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeBody[shared.ErrorResponse](t, rec).Error)
			}
			if rec.Code != http.StatusCreated {
				return
			}

			resp := decodeBody[CreateListResponse](t, rec)
			assert.Equal(t, 2, resp.WordCount)
			assert.Equal(t, "French A1", resp.List.Name)
			assert.NotEqual(t, uuid.Nil, resp.List.ID)

			require.NotNil(t, gotList)
			assert.Equal(t, f.userID, gotList.UserID)
			require.Len(t, gotWords, 2)
			assert.Equal(t, "chien", gotWords[1].Term)
			assert.Equal(t, "noun", gotWords[0].PartOfSpeech)
		})
	}
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		db             Pinger
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "database up",
			db:             stubPinger{},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok","database":"up"}`,
		},
		{
			name:           "database down",
			db:             stubPinger{err: errors.New("connection refused")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"unavailable","database":"down"}`,
		},
		{
			name:           "no database",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok","database":"unchecked"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := NewHealthHandler(tc.db, log)
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func TestHealthIsPublic(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", strings.NewReader("")))

	assert.Equal(t, http.StatusOK, rec.Code)
}
