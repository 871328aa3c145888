package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sehyaatri/sehyaatri/internal/apperror"
	"github.com/sehyaatri/sehyaatri/internal/model"
	"github.com/sehyaatri/sehyaatri/internal/repository"
)

// compile-time check that *AccountDB implements repository.AccountRepository
var _ repository.AccountRepository = (*AccountDB)(nil)

// AccountDB is the accounts table.
type AccountDB struct {
	conn *sql.DB
}

func (db *AccountDB) ListAll(ctx context.Context) ([]model.Account, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, email, name, password_hash, role FROM accounts ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role); err != nil {
			return nil, fmt.Errorf("sqlite: scanning account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating accounts: %w", err)
	}

	return accounts, nil
}

// Append inserts the account and fills in its ID.
//
// The UNIQUE constraint on email is the uniqueness guarantee; a violation
// comes back from the driver as SQLITE_CONSTRAINT_UNIQUE and is translated
// into the domain conflict error.
func (db *AccountDB) Append(ctx context.Context, account *model.Account) error {
	account.Email = model.NormalizeEmail(account.Email)

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO accounts (email, name, password_hash, role) VALUES (?, ?, ?, ?)`,
		account.Email,
		account.Name,
		account.PasswordHash,
		account.Role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email", "User exists")
		}
		return fmt.Errorf("sqlite: inserting account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading account id: %w", err)
	}
	account.ID = id

	return nil
}

// FindByEmail returns apperror.ErrNotFound if no account has that email.
func (db *AccountDB) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, role FROM accounts WHERE email = ?`,
		email,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("account", email)
		}
		return nil, fmt.Errorf("sqlite: finding account: %w", err)
	}

	return &a, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
