package filestore

import (
	"context"
	"fmt"

	"github.com/sehyaatri/sehyaatri/internal/apperror"
	"github.com/sehyaatri/sehyaatri/internal/model"
	"github.com/sehyaatri/sehyaatri/internal/repository"
)

var _ repository.AccountRepository = (*AccountStore)(nil)

// AccountStore is the users.json collection.
type AccountStore struct {
	c *collection[model.Account]
}

func (s *AccountStore) ListAll(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.c.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("filestore: listing accounts: %w", err)
	}
	return accounts, nil
}

// Append enforces email uniqueness and assigns the id under the collection
// lock, so the check and the write see the same file contents.
func (s *AccountStore) Append(ctx context.Context, account *model.Account) error {
	account.Email = model.NormalizeEmail(account.Email)

	return s.c.update(ctx, func(accounts []model.Account) ([]model.Account, error) {
		var maxID int64
		for _, a := range accounts {
			if model.NormalizeEmail(a.Email) == account.Email {
				return nil, apperror.Conflict("email", "User exists")
			}
			if a.ID > maxID {
				maxID = a.ID
			}
		}

		account.ID = maxID + 1
		return append(accounts, *account), nil
	})
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	accounts, err := s.c.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("filestore: finding account: %w", err)
	}

	for i := range accounts {
		if model.NormalizeEmail(accounts[i].Email) == email {
			return &accounts[i], nil
		}
	}
	return nil, apperror.NotFound("account", email)
}
