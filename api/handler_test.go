package api

import (
	"churn-bot/domain"
	apperrors "churn-bot/errors"
	"churn-bot/mocks"
	"churn-bot/observability"
	"churn-bot/repositories"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	router     http.Handler
	dispatcher *mocks.MockIDispatcher
	repository *mocks.MockIPredictionRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockIDispatcher(ctrl)
	repository := mocks.NewMockIPredictionRepository(ctrl)
	stats := func() observability.Snapshot { return observability.Snapshot{ActiveSessions: 3, Started: 7} }
	handler := NewHandler(slog.Default(), dispatcher, repository, stats, 20)
	return fixture{
		router:     NewRouter(slog.Default(), handler, time.Second),
		dispatcher: dispatcher,
		repository: repository,
	}
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestPostMessage_ReturnsReply(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.dispatcher.EXPECT().
		Dispatch(gomock.Any(), "alice", "Month-to-month").
		Return(domain.Reply{Text: "3. Internet?", Choices: []string{"DSL", "Fiber optic", "No"}, Signal: domain.SignalContinue}, nil)

	rec := f.do(http.MethodPost, "/sessions/alice/messages", `{"text":"Month-to-month"}`)

	req.Equal(http.StatusOK, rec.Code)
	req.Equal("application/json", rec.Header().Get("Content-Type"))
	var response MessageResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	req.Equal(MessageResponse{Reply: "3. Internet?", Choices: []string{"DSL", "Fiber optic", "No"}, Signal: "continue"}, response)
}

func TestPostMessage_RejectsBadBodies(t *testing.T) {
	tests := []struct {
		description string
		body        string
	}{
		{"Should reject malformed JSON", `{"text":`},
		{"Should reject an empty text", `{"text":""}`},
		{"Should reject a missing text", `{}`},
		{"Should reject a text over the limit", fmt.Sprintf(`{"text":%q}`, strings.Repeat("a", maxMessageLength+1))},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			f := newFixture(t)
			f.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			rec := f.do(http.MethodPost, "/sessions/alice/messages", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPostMessage_MapsErrors(t *testing.T) {
	tests := []struct {
		description string
		err         error
		want        int
	}{
		{"Should map a busy session to 429", fmt.Errorf("session alice: %w", apperrors.ErrSessionBusy), http.StatusTooManyRequests},
		{"Should map a stopped orchestrator to 503", apperrors.ErrOrchestratorStopped, http.StatusServiceUnavailable},
		{"Should map a timeout to 504", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"Should map anything else to 500", errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			f := newFixture(t)
			f.dispatcher.EXPECT().Dispatch(gomock.Any(), "alice", "12").Return(domain.Reply{}, tt.err)

			rec := f.do(http.MethodPost, "/sessions/alice/messages", `{"text":"12"}`)

			require.Equal(t, tt.want, rec.Code)
			require.NotContains(t, rec.Body.String(), "unexpected")
		})
	}
}

func TestListPredictions_Pages(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	id := uuid.New()
	next := "0000000000000000001:abc"
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	// Given a cursor and a custom limit are forwarded
	f.repository.EXPECT().
		ListPredictions(gomock.Any(), 5).
		DoAndReturn(func(cursor *string, _ int) ([]repositories.PredictionRecord, *string, error) {
			req.NotNil(cursor)
			req.Equal("prev", *cursor)
			return []repositories.PredictionRecord{{
				ID: id, SessionID: "alice", Label: "will_churn", Probability: 0.9,
				ModelVersion: "v1", At: at, Answers: map[string]any{"tenure": 1.0},
			}}, &next, nil
		})

	rec := f.do(http.MethodGet, "/predictions?limit=5&cursor=prev", "")

	req.Equal(http.StatusOK, rec.Code)
	var page PredictionPage
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &page))
	req.Len(page.Items, 1)
	req.Equal(id.String(), page.Items[0].ID)
	req.Equal("2024-06-01T10:00:00Z", page.Items[0].At)
	req.Equal(next, *page.Cursor)
}

func TestListPredictions_DefaultsAndErrors(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.repository.EXPECT().ListPredictions(gomock.Nil(), 20).Return(nil, nil, nil)
	rec := f.do(http.MethodGet, "/predictions", "")
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`{"items":[]}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/predictions?limit=-1", "")
	req.Equal(http.StatusBadRequest, rec.Code)

	f.repository.EXPECT().ListPredictions(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("badger closed"))
	rec = f.do(http.MethodGet, "/predictions", "")
	req.Equal(http.StatusInternalServerError, rec.Code)
}

func TestStatsAndHealth(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/stats", "")
	req.Equal(http.StatusOK, rec.Code)
	var snapshot observability.Snapshot
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &snapshot))
	req.Equal(3, snapshot.ActiveSessions)
	req.Equal(uint64(7), snapshot.Started)

	rec = f.do(http.MethodGet, "/health", "")
	req.Equal(http.StatusOK, rec.Code)
}
