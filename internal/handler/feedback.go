package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sehyaatri/sehyaatri/internal/metrics"
	"github.com/sehyaatri/sehyaatri/internal/model"
)

// isoMillis is JavaScript's Date.toISOString layout.
const isoMillis = "2006-01-02T15:04:05.000Z"

// FeedbackService is the slice of service.FeedbackService the handler needs.
type FeedbackService interface {
	Submit(ctx context.Context, payload json.RawMessage, email string) (*model.FeedbackRecord, error)
	ListAll(ctx context.Context) ([]model.FeedbackRecord, error)
}

// FeedbackHandler serves the public submission endpoint and the
// owner-only listing.
type FeedbackHandler struct {
	feedback FeedbackService
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewFeedbackHandler(feedback FeedbackService, m *metrics.Metrics, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedback: feedback,
		metrics:  m,
		logger:   logger,
	}
}

type submitRequest struct {
	Payload json.RawMessage `json:"payload"`
	Email   string          `json:"email"`
}

// HandleSubmit stores one feedback document. No authentication.
//
// HTTP: POST /api/feedback  {"payload": <any JSON>, "email": "optional"}
func (h *FeedbackHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.feedback.Submit(r.Context(), req.Payload, req.Email); err != nil {
		h.logger.Warn("feedback rejected", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.metrics.FeedbackSubmissions.Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type feedbackItem struct {
	ID        int64           `json:"id"`
	UserEmail *string         `json:"userEmail"`
	Data      json.RawMessage `json:"data"`
	CreatedAt string          `json:"createdAt"`
}

type feedbackList struct {
	Feedback []feedbackItem `json:"feedback"`
}

// HandleList returns every record, newest first. Mounted behind
// auth.RequireBearer.
//
// HTTP: GET /api/feedback
func (h *FeedbackHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.feedback.ListAll(r.Context())
	if err != nil {
		h.logger.Error("listing feedback", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	out := feedbackList{Feedback: make([]feedbackItem, 0, len(records))}
	for _, rec := range records {
		out.Feedback = append(out.Feedback, feedbackItem{
			ID:        rec.ID,
			UserEmail: rec.UserEmail,
			Data:      rec.Payload,
			CreatedAt: rec.CreatedAt.UTC().Format(isoMillis),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// HandleHealth is a liveness probe.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
