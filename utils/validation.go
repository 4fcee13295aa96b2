// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// ValidPhone accepts a normalized length between 9 (local Portuguese
// number) and 15 digits (E.164 maximum).
func ValidPhone(phone string) bool {
	digits := NormalizePhone(phone)
	return len(digits) >= 9 && len(digits) <= 15
}

// PhoneVariants returns the normalized forms under which the same number
// may have been stored: the 9-digit local form and its 351-prefixed
// 12-digit form are the same customer.
func PhoneVariants(phone string) []string {
	digits := NormalizePhone(phone)
	switch {
	case len(digits) == 9:
		return []string{digits, "351" + digits}
	case len(digits) == 12 && strings.HasPrefix(digits, "351"):
		return []string{digits, digits[3:]}
	default:
		return []string{digits}
	}
}
