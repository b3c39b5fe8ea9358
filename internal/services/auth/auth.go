// Package auth keeps the back-office password in the OS keychain so
// scheduled runs can log in unattended.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"t4auto/internal/domain"
	"t4auto/internal/util"
)

const ServiceName = "t4auto"

var ErrPasswordNotFound = errors.New("password not found")

// Store holds one password per username.
type Store interface {
	SetPassword(username string, password string) error
	GetPassword(username string) (string, error)
	DeletePassword(username string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeUsername normalizes a username for consistent key lookup.
// Back-office logins are email addresses and case-insensitive.
func NormalizeUsername(username string) string {
	return util.NormalizeKey(username)
}

// Credentials loads the stored password for username.
func Credentials(store Store, username string) (domain.Credentials, error) {
	if strings.TrimSpace(username) == "" {
		return domain.Credentials{}, fmt.Errorf("no username configured (run 't4auto auth login')")
	}
	pw, err := store.GetPassword(username)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("password for %s unavailable (run 't4auto auth login'): %w", username, err)
	}
	return domain.Credentials{Username: strings.TrimSpace(username), Password: pw}, nil
}
