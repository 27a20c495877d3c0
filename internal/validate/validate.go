// Package validate holds the local credential checks performed before any
// network call.
package validate

import "regexp"

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 8

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Email reports whether s has a plausible email shape. The provider does
// the real validation; this only catches obvious typos locally.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Password reports whether s meets the minimum length.
func Password(s string) bool {
	return len(s) >= MinPasswordLen
}
