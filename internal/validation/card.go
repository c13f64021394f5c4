package validation

import (
	"strconv"
	"strings"
	"time"
)

// expirySanityYears bounds how far in the future an expiry may be.
const expirySanityYears = 20

// ValidCardNumber checks a card number with the Luhn algorithm.
// Separators (spaces, dashes) are stripped first; the number must be
// 13-19 digits.
func ValidCardNumber(number string) bool {
	digits := stripSeparators(number)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	return sum%10 == 0
}

// ValidExpiry checks a card expiry month/year against the given time.
// Year may be 2-digit or 4-digit. Dates in the past or more than
// expirySanityYears ahead are rejected.
func ValidExpiry(monthStr, yearStr string, now time.Time) bool {
	month, err := strconv.Atoi(strings.TrimSpace(monthStr))
	if err != nil || month < 1 || month > 12 {
		return false
	}

	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil {
		return false
	}
	if year < 100 {
		year += (now.Year() / 100) * 100
	}

	if year > now.Year()+expirySanityYears {
		return false
	}
	if year < now.Year() {
		return false
	}
	if year == now.Year() && time.Month(month) < now.Month() {
		return false
	}

	return true
}

func stripSeparators(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
