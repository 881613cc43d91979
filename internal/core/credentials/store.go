// Package credentials holds the login secrets of the seeded admin accounts.
//
// Secrets are bcrypt-hashed when the store is built and the plaintext is
// discarded, so a verified login never compares raw strings.
package credentials

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

// Record is the plaintext form of one account's secrets, as read from config.
type Record struct {
	Email    string
	Password string
	AdminKey string
}

type entry struct {
	passwordHash []byte
	adminKeyHash []byte
}

// Store maps an email to its hashed password and admin key.
// It is immutable after New and safe for concurrent use.
type Store struct {
	entries map[string]entry
	// dummy is compared against when the email is unknown so the response
	// time does not reveal which emails exist.
	dummy []byte
}

// New hashes every record with the given bcrypt cost.
// Emails are matched exactly; duplicates are rejected.
func New(records []Record, cost int) (*Store, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	s := &Store{entries: make(map[string]entry, len(records))}
	for _, r := range records {
		if strings.TrimSpace(r.Email) == "" || r.Password == "" || r.AdminKey == "" {
			return nil, fmt.Errorf("credentials: incomplete record for %q", r.Email)
		}
		if _, dup := s.entries[r.Email]; dup {
			return nil, fmt.Errorf("credentials: duplicate record for %q", r.Email)
		}

		pw, err := bcrypt.GenerateFromPassword([]byte(r.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("credentials: hash password: %w", err)
		}
		key, err := bcrypt.GenerateFromPassword([]byte(r.AdminKey), cost)
		if err != nil {
			return nil, fmt.Errorf("credentials: hash admin key: %w", err)
		}
		s.entries[r.Email] = entry{passwordHash: pw, adminKeyHash: key}
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("unknown-account"), cost)
	if err != nil {
		return nil, fmt.Errorf("credentials: hash dummy: %w", err)
	}
	s.dummy = dummy
	return s, nil
}

// Has reports whether a record exists for email.
func (s *Store) Has(email string) bool {
	_, ok := s.entries[email]
	return ok
}

// Verify checks both shared secrets for email. Both comparisons always run.
func (s *Store) Verify(email, password, adminKey string) error {
	e, ok := s.entries[email]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(password))
		_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(adminKey))
		return domain.ErrInvalidCredentials
	}

	pwErr := bcrypt.CompareHashAndPassword(e.passwordHash, []byte(password))
	keyErr := bcrypt.CompareHashAndPassword(e.adminKeyHash, []byte(adminKey))
	if pwErr != nil || keyErr != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}
