// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	handleRegex = regexp.MustCompile(`^@[a-zA-Z0-9_]+$`)
)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements:
// at least 8 characters with one uppercase letter, one lowercase letter
// and one digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("password must contain at least one uppercase letter, one lowercase letter and one digit")
	}
	return nil
}

// ValidateHandle checks the "@name" identifier: it must start with '@', be at
// least 4 characters long including the marker, and contain only letters,
// digits and underscores after it.
func ValidateHandle(handle string) error {
	if !strings.HasPrefix(handle, "@") {
		return fmt.Errorf("handle must start with @")
	}
	if len(handle) < 4 {
		return fmt.Errorf("handle must be at least 4 characters long (including @)")
	}
	if len(handle) > 30 {
		return fmt.Errorf("handle must not exceed 30 characters")
	}
	if !handleRegex.MatchString(handle) {
		return fmt.Errorf("handle can only contain letters, numbers and underscores")
	}
	return nil
}

// ValidateNickname checks the mutable display label.
func ValidateNickname(nickname string) error {
	if utf8.RuneCountInString(nickname) < 2 {
		return fmt.Errorf("nickname must be at least 2 characters long")
	}
	if utf8.RuneCountInString(nickname) > 100 {
		return fmt.Errorf("nickname must not exceed 100 characters")
	}
	return nil
}

// ValidatePost checks a post's title and content bounds.
func ValidatePost(title, content string) error {
	titleLen := utf8.RuneCountInString(strings.TrimSpace(title))
	if titleLen < 3 {
		return fmt.Errorf("title must be at least 3 characters long")
	}
	if titleLen > 200 {
		return fmt.Errorf("title must not exceed 200 characters")
	}

	contentLen := utf8.RuneCountInString(strings.TrimSpace(content))
	if contentLen < 10 {
		return fmt.Errorf("content must be at least 10 characters long")
	}
	if contentLen > 50000 {
		return fmt.Errorf("content must not exceed 50,000 characters")
	}
	return nil
}

// SanitizeInput trims whitespace, strips NUL bytes and truncates to maxRunes
// when maxRunes > 0.
func SanitizeInput(input string, maxRunes int) string {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, "\x00", "")
	if maxRunes > 0 {
		if runes := []rune(s); len(runes) > maxRunes {
			s = string(runes[:maxRunes])
		}
	}
	return s
}
