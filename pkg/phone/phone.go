package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed when a number has no country prefix.
const DefaultRegion = "US"

// Digits strips everything but digits from a phone string. Search matches on
// digits so "(555) 123" finds "+1 555-123-4567".
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize parses a phone number and returns it in E.164 format. The input
// is returned unchanged when it cannot be parsed; lead phone fields are
// free-text and a best effort is all the dashboard needs.
func Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	num, err := phonenumbers.Parse(raw, DefaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// IsValid reports whether raw parses as a valid phone number.
func IsValid(raw string) bool {
	num, err := phonenumbers.Parse(raw, DefaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
