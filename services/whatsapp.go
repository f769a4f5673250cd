package services

import (
	"net/url"
	"strings"
)

// WhatsAppLink builds a wa.me deep link. Non-digits are stripped from phone and
// a local 9-digit mobile number gets countryPrefix in front.
func WhatsAppLink(phone, text, countryPrefix string) string {
	digits := DigitsOnly(phone)
	if len(digits) == 9 {
		digits = countryPrefix + digits
	}
	return "https://wa.me/" + digits + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
