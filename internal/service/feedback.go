package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sehyaatri/sehyaatri/internal/apperror"
	"github.com/sehyaatri/sehyaatri/internal/model"
	"github.com/sehyaatri/sehyaatri/internal/repository"
)

const MsgMissingPayload = "Missing payload"

// FeedbackService accepts anonymous feedback and lists it for owners.
type FeedbackService struct {
	feedback repository.FeedbackRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewFeedbackService(feedback repository.FeedbackRepository, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit stores payload verbatim. A blank email is stored as absent.
// CreatedAt is server time in UTC at millisecond precision, which is what
// the listing reports.
func (s *FeedbackService) Submit(ctx context.Context, payload json.RawMessage, email string) (*model.FeedbackRecord, error) {
	if model.IsEmptyPayload(payload) {
		return nil, apperror.ValidationFailed("data", MsgMissingPayload)
	}

	record := &model.FeedbackRecord{
		Payload:   payload,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if e := strings.TrimSpace(email); e != "" {
		record.UserEmail = &e
	}

	if err := s.feedback.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("service/feedback: storing feedback: %w", err)
	}

	s.logger.Info("feedback stored",
		slog.Int64("feedbackID", record.ID),
		slog.Bool("hasEmail", record.UserEmail != nil),
	)
	return record, nil
}

// ListAll returns every record, newest first.
func (s *FeedbackService) ListAll(ctx context.Context) ([]model.FeedbackRecord, error) {
	records, err := s.feedback.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/feedback: listing feedback: %w", err)
	}
	return records, nil
}
