// Package keyring provides access to the system keychain for storing the
// control API token.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "pomodoro"

// Secret names one keychain entry.
type Secret string

const (
	// APIToken is the bearer token required by mutating HTTP routes.
	APIToken Secret = "control-api-token"
)

// AllSecrets returns every known secret for iteration.
func AllSecrets() []Secret {
	return []Secret{APIToken}
}

// DisplayName returns a human-readable name for the secret.
func (s Secret) DisplayName() string {
	switch s {
	case APIToken:
		return "control API token"
	default:
		return string(s)
	}
}

// Get retrieves a secret from the system keychain. A missing entry yields
// an empty string and no error.
func Get(secret Secret) (string, error) {
	value, err := keyring.Get(serviceName, string(secret))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to get %s from keychain: %w", secret.DisplayName(), err)
	}

	return value, nil
}

// Set stores a secret in the system keychain.
func Set(secret Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", secret.DisplayName())
	}

	if err := keyring.Set(serviceName, string(secret), value); err != nil {
		return fmt.Errorf("failed to set %s in keychain: %w", secret.DisplayName(), err)
	}

	return nil
}

// Delete removes a secret. Deleting a missing entry is not an error.
func Delete(secret Secret) error {
	err := keyring.Delete(serviceName, string(secret))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete %s from keychain: %w", secret.DisplayName(), err)
	}

	return nil
}

// IsSet checks if a secret exists in the keychain.
func IsSet(secret Secret) bool {
	_, err := keyring.Get(serviceName, string(secret))

	return err == nil
}
