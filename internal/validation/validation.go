// Package validation holds input validators shared by signup and profile
// handlers.
package validation

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// ValidateUsername checks the allowed username shape.
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return errors.New("username must be 3-30 characters of letters, digits or underscore")
	}
	return nil
}

// ValidateEmail checks RFC 5322 address syntax.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password policy: at least 8
// characters with at least one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain at least one letter and one digit")
	}
	return nil
}

// ValidateTitle checks a script/project/forum title.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title is required")
	}
	if len(title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	return nil
}

// ValidateServiceBranch checks the self-reported branch against the known set.
func ValidateServiceBranch(branch string) error {
	switch strings.ToLower(strings.TrimSpace(branch)) {
	case "army", "navy", "air force", "marine corps", "coast guard", "space force", "national guard":
		return nil
	}
	return errors.New("unknown service branch")
}
