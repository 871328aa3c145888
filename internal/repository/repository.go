// Package repository declares the storage capabilities the services need.
//
// Both collections are append-only: there is no Update and no Delete. The
// concrete backend (flat JSON files or SQLite) lives in a sub-package and is
// chosen in internal/server from configuration; services only ever see
// these interfaces.
package repository

import (
	"context"

	"github.com/sehyaatri/sehyaatri/internal/model"
)

// AccountRepository stores owner accounts keyed by normalized email.
type AccountRepository interface {
	// ListAll returns every account in insertion order.
	ListAll(ctx context.Context) ([]model.Account, error)

	// Append assigns the next id (max+1, or 1 when empty) and stores the
	// account. It returns an apperror.ErrConflict error when the email is
	// already taken, checked under the same lock/transaction as the insert.
	Append(ctx context.Context, account *model.Account) error

	// FindByEmail returns apperror.ErrNotFound when no account matches.
	// The email must already be normalized.
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
}

// FeedbackRepository stores submitted feedback documents.
type FeedbackRepository interface {
	// ListAll returns every record, most recently created first.
	ListAll(ctx context.Context) ([]model.FeedbackRecord, error)

	// Append assigns the next id and stores the record. CreatedAt is set
	// by the caller.
	Append(ctx context.Context, record *model.FeedbackRecord) error
}
