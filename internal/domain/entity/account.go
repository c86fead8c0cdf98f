// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"
)

// Account is a registered user's credential record. It is created once at registration and
// never mutated afterwards.
type Account struct {
	ID           string    // Opaque identifier assigned by the store on creation.
	Email        string    // Normalized login email, unique across all accounts.
	PasswordHash string    `json:"-"` // Salted one-way hash of the password. Never the plaintext.
	CreatedAt    time.Time // Timestamp of when this account was created.
}

// NormalizeEmail trims surrounding whitespace and lowercases the address so that lookups and
// the store's uniqueness constraint agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
