// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^(\+[1-9]\d{6,14}|\d{7,15})$`)

// CleanPhone drops the spaces, dashes and brackets people type into phone
// numbers.
func CleanPhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}

// ValidatePhone accepts 7 to 15 digits. Local numbers may start with a trunk 0;
// international ones carry a + and a country code that cannot start with 0.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(CleanPhone(phone))
}
