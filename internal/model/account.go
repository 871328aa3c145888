// Package model defines the data structures used throughout the application.
package model

import "strings"

// RoleOwner is the only role in the system. Every self-registered account
// receives it; nothing ever changes it.
const RoleOwner = "owner"

// Account is a registered owner account.
//
// The struct tags match the on-disk format of the flat-file store
// (users.json): snake_case keys, password_hash alongside the profile.
// PasswordHash is tagged json:"password_hash" for persistence only; HTTP
// responses never serialise an Account directly (they return a token).
type Account struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
// It is applied before every store write and every lookup, so " A@B.com "
// and "a@b.com" name the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
