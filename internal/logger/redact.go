package logger

import "strings"

// Redaction helpers for payment fields. Anything that may end up in a log
// line goes through these first; raw card data must never be written.

// MaskCardNumber keeps only the last four digits.
func MaskCardNumber(number string) string {
	digits := digitsOnly(number)
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

// MaskCVV hides the value entirely.
func MaskCVV(cvv string) string {
	return strings.Repeat("*", len(cvv))
}

// MaskTaxID keeps only the last two digits.
func MaskTaxID(taxID string) string {
	digits := digitsOnly(taxID)
	if len(digits) <= 2 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-2) + digits[len(digits)-2:]
}

// MaskName keeps the first rune of each word.
func MaskName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 1 {
			words[i] = string(r[0]) + strings.Repeat("*", len(r)-1)
		}
	}
	return strings.Join(words, " ")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
