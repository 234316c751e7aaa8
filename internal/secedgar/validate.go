package secedgar

import (
	"fmt"
	"net/mail"
	"strings"
)

// Environment variables the downloader credentials are read from. SEC asks
// automated EDGAR clients to identify themselves with a company name and a
// contact email.
const (
	EnvCompanyName = "SEC_EDGAR_NAME"
	EnvEmail       = "SEC_EDGAR_EMAIL"
)

// ValidateCompanyName checks and normalizes the declared company name.
// The name must be non-empty after trimming.
func ValidateCompanyName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%s environment variable required", EnvCompanyName)
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("company name cannot be empty")
	}
	return trimmed, nil
}

// ValidateEmail checks the contact email address syntactically and returns
// the bare address.
func ValidateEmail(email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("%s environment variable required", EnvEmail)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", fmt.Errorf("invalid email address %q: %w", email, err)
	}
	return addr.Address, nil
}
