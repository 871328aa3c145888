package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sehyaatri/sehyaatri/internal/model"
	"github.com/sehyaatri/sehyaatri/internal/repository"
)

var _ repository.FeedbackRepository = (*FeedbackDB)(nil)

// FeedbackDB is the feedback table.
//
// created_at is stored as RFC 3339 text with nanoseconds rather than a
// DATETIME so it scans back into exactly the time.Time that was written.
type FeedbackDB struct {
	conn *sql.DB
}

func (db *FeedbackDB) Append(ctx context.Context, record *model.FeedbackRecord) error {
	var email sql.NullString
	if record.UserEmail != nil {
		email = sql.NullString{String: *record.UserEmail, Valid: true}
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO feedback (user_email, payload, created_at) VALUES (?, ?, ?)`,
		email,
		string(record.Payload),
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting feedback: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading feedback id: %w", err)
	}
	record.ID = id

	return nil
}

// ListAll returns every record, highest id (newest) first.
func (db *FeedbackDB) ListAll(ctx context.Context) ([]model.FeedbackRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_email, payload, created_at FROM feedback ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing feedback: %w", err)
	}
	defer rows.Close()

	var records []model.FeedbackRecord
	for rows.Next() {
		var (
			r         model.FeedbackRecord
			email     sql.NullString
			payload   string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &email, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning feedback row: %w", err)
		}

		if email.Valid {
			e := email.String
			r.UserEmail = &e
		}
		r.Payload = json.RawMessage(payload)
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parsing created_at of feedback %d: %w", r.ID, err)
		}

		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating feedback: %w", err)
	}

	return records, nil
}
