// Package validate holds the acceptability rules for usernames and
// passwords. The functions are pure; they gate registration but do not
// touch storage.
package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldDelimiter separates fields in the line-oriented credential store.
// Usernames must not contain it, or a stored record could be forged by a
// crafted registration.
const FieldDelimiter = ","

// MinPasswordLength is the minimum accepted password length in runes.
const MinPasswordLength = 8

// Username reports whether s is acceptable as a username: non-empty and
// free of the store delimiter and line breaks.
func Username(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, FieldDelimiter+"\n\r")
}

// Password reports whether s is acceptable as a password: at least
// MinPasswordLength runes with at least one uppercase letter, one lowercase
// letter, one digit and one punctuation or symbol character.
func Password(s string) bool {
	if utf8.RuneCountInString(s) < MinPasswordLength {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}
