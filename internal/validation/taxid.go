package validation

// ValidTaxID checks a CPF-style tax id: 11 digits with two mod-11 check
// digits. Formatting (dots, dash) is tolerated; sequences of a single
// repeated digit are rejected even when their checksum holds.
func ValidTaxID(taxID string) bool {
	digits := make([]int, 0, 11)
	for _, r := range taxID {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) != 11 {
		return false
	}

	allSame := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	if checkDigit(digits[:9], 10) != digits[9] {
		return false
	}
	return checkDigit(digits[:10], 11) == digits[10]
}

// checkDigit computes a mod-11 check digit over the given digits with
// weights descending from startWeight. Results of 10 or 11 map to 0.
func checkDigit(digits []int, startWeight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (startWeight - i)
	}
	digit := 11 - (sum % 11)
	if digit >= 10 {
		return 0
	}
	return digit
}
