// Package api exposes the dialogue over HTTP.
package api

import (
	"churn-bot/contract"
	"churn-bot/domain"
	apperrors "churn-bot/errors"
	"churn-bot/observability"
	"churn-bot/repositories"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const maxMessageLength = 4096

var validate = validator.New()

type StatsProvider func() observability.Snapshot

type MessageRequest struct {
	Text string `json:"text" validate:"required,max=4096"`
}

type MessageResponse struct {
	Reply   string   `json:"reply"`
	Choices []string `json:"choices,omitempty"`
	Signal  string   `json:"signal"`
}

type PredictionResponse struct {
	ID           string         `json:"id"`
	SessionID    string         `json:"session_id"`
	Label        string         `json:"label"`
	Probability  float64        `json:"probability"`
	ModelVersion string         `json:"model_version"`
	At           string         `json:"at"`
	Answers      map[string]any `json:"answers"`
}

type PredictionPage struct {
	Items  []PredictionResponse `json:"items"`
	Cursor *string              `json:"cursor,omitempty"`
}

// Handler provides the HTTP endpoints of the bot.
type Handler struct {
	log        *slog.Logger
	dispatcher contract.IDispatcher
	repository repositories.IPredictionRepository
	stats      StatsProvider
	pageSize   int
}

func NewHandler(log *slog.Logger, dispatcher contract.IDispatcher,
	repository repositories.IPredictionRepository, stats StatsProvider, pageSize int) *Handler {
	return &Handler{
		log:        log,
		dispatcher: dispatcher,
		repository: repository,
		stats:      stats,
		pageSize:   pageSize,
	}
}

// PostMessage feeds one message to the session named in the path.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if strings.TrimSpace(sessionID) == "" {
		Error(w, http.StatusBadRequest, "session id is required")
		return
	}

	var req MessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4*maxMessageLength)).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		Error(w, http.StatusBadRequest, "text is required and limited to 4096 characters")
		return
	}

	reply, err := h.dispatcher.Dispatch(r.Context(), sessionID, req.Text)
	if err != nil {
		h.dispatchError(w, sessionID, err)
		return
	}
	JSON(w, http.StatusOK, toMessageResponse(reply))
}

func (h *Handler) dispatchError(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrSessionBusy):
		Error(w, http.StatusTooManyRequests, "previous message still in progress")
	case errors.Is(err, apperrors.ErrOrchestratorStopped):
		Error(w, http.StatusServiceUnavailable, "service is shutting down")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		Error(w, http.StatusGatewayTimeout, "request timed out")
	default:
		h.log.Error("Dispatch failed", "session", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

// ListPredictions pages through the prediction history, newest first.
func (h *Handler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	limit := h.pageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	var cursor *string
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		cursor = lo.ToPtr(raw)
	}

	records, next, err := h.repository.ListPredictions(cursor, limit)
	if err != nil {
		h.log.Error("Failed to list predictions", "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	JSON(w, http.StatusOK, PredictionPage{
		Items:  lo.Map(records, func(r repositories.PredictionRecord, _ int) PredictionResponse { return toPredictionResponse(r) }),
		Cursor: next,
	})
}

func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, h.stats())
}

func toMessageResponse(reply domain.Reply) MessageResponse {
	return MessageResponse{Reply: reply.Text, Choices: reply.Choices, Signal: string(reply.Signal)}
}

func toPredictionResponse(r repositories.PredictionRecord) PredictionResponse {
	return PredictionResponse{
		ID:           r.ID.String(),
		SessionID:    r.SessionID,
		Label:        r.Label,
		Probability:  r.Probability,
		ModelVersion: r.ModelVersion,
		At:           r.At.Format(time.RFC3339),
		Answers:      r.Answers,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
