package filestore

import (
	"context"
	"fmt"
	"slices"

	"github.com/sehyaatri/sehyaatri/internal/model"
	"github.com/sehyaatri/sehyaatri/internal/repository"
)

var _ repository.FeedbackRepository = (*FeedbackStore)(nil)

// FeedbackStore is the feedback.json collection. The file keeps insertion
// order; ListAll reverses it.
type FeedbackStore struct {
	c *collection[model.FeedbackRecord]
}

func (s *FeedbackStore) ListAll(ctx context.Context) ([]model.FeedbackRecord, error) {
	records, err := s.c.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("filestore: listing feedback: %w", err)
	}
	slices.Reverse(records)
	return records, nil
}

func (s *FeedbackStore) Append(ctx context.Context, record *model.FeedbackRecord) error {
	return s.c.update(ctx, func(records []model.FeedbackRecord) ([]model.FeedbackRecord, error) {
		var maxID int64
		for _, r := range records {
			if r.ID > maxID {
				maxID = r.ID
			}
		}

		record.ID = maxID + 1
		return append(records, *record), nil
	})
}
