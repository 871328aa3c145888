// Package service holds the business rules between the HTTP handlers and the
// stores:
//
//	Handler (HTTP) → Service (rules) → Repository (file or SQLite)
//
// Services take repository interfaces, never a concrete backend, and know
// nothing about HTTP. They return *apperror.AppError values that the handler
// layer maps to status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sehyaatri/sehyaatri/internal/apperror"
	"github.com/sehyaatri/sehyaatri/internal/auth"
	"github.com/sehyaatri/sehyaatri/internal/model"
	"github.com/sehyaatri/sehyaatri/internal/repository"
)

// Client-facing messages. Handlers return them verbatim.
const (
	MsgMissingCredentials = "Missing email or password"
	MsgUserExists         = "User exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgPasswordTooLong    = "Password must be 72 bytes or fewer"
)

// AccountService registers owner accounts and logs them in.
type AccountService struct {
	accounts  repository.AccountRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAccountService(
	accounts repository.AccountRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the account with the token issued for it.
type AuthResult struct {
	Account *model.Account
	Token   string
}

// Signup creates an owner account and issues its first token.
//
// The email is normalized before the uniqueness check and before storage.
// The store re-checks uniqueness atomically, so two racing signups for the
// same address still produce exactly one account.
func (s *AccountService) Signup(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", MsgMissingCredentials)
	}

	_, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("email", MsgUserExists)
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/account: checking email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", MsgPasswordTooLong)
		}
		return nil, fmt.Errorf("service/account: %w", err)
	}

	account := &model.Account{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         model.RoleOwner,
	}
	if err := s.accounts.Append(ctx, account); err != nil {
		// ErrConflict from the store passes through untouched.
		return nil, fmt.Errorf("service/account: storing account: %w", err)
	}

	s.logger.Info("account created",
		slog.Int64("accountID", account.ID),
		slog.String("email", account.Email),
	)

	return s.issue(account)
}

// Login verifies the credentials and issues a fresh token.
//
// An unknown email and a wrong password produce the same error so the
// response never reveals which accounts exist. Blank fields are just wrong
// credentials: a blank email matches no account and a blank password
// matches no hash.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = model.NormalizeEmail(email)

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("login failed", slog.String("email", email))
			return nil, apperror.Unauthorized(MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("service/account: looking up account: %w", err)
	}

	if err := s.passwords.Verify(account.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			// A corrupt stored hash is still just a failed login to the caller.
			s.logger.Warn("stored password hash unreadable",
				slog.Int64("accountID", account.ID),
				slog.String("error", err.Error()),
			)
		}
		s.logger.Info("login failed", slog.String("email", email))
		return nil, apperror.Unauthorized(MsgInvalidCredentials)
	}

	return s.issue(account)
}

func (s *AccountService) issue(account *model.Account) (*AuthResult, error) {
	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("service/account: issuing token for account %d: %w", account.ID, err)
	}
	return &AuthResult{Account: account, Token: token}, nil
}
