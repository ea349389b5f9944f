package domain

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("enter a valid phone number (8-15 digits, optional leading +)")

// NormalizePhone strips spaces, dashes, dots and parentheses and checks the
// remaining shape: an optional leading '+' followed by 8 to 15 digits.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return "", ErrInvalidPhone
		}
	}

	phone := b.String()
	digits := len(strings.TrimPrefix(phone, "+"))
	if digits < 8 || digits > 15 || len(phone) > 15 {
		return "", ErrInvalidPhone
	}
	return phone, nil
}
