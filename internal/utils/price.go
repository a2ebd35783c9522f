package utils

import "strings"

// NoPriceLabel is shown whenever a price figure is absent or non-positive.
// A zero amount is never rendered as "0원".
const NoPriceLabel = "가격 정보 없음"

// FormatPrice converts a KRW amount into a comma-grouped "N원" string.
func FormatPrice(amount int64) string {
	if amount <= 0 {
		return NoPriceLabel
	}
	return groupDigits(amount) + "원"
}

// FormatMonthlyPrice formats a monthly subscription figure ("월 N원").
func FormatMonthlyPrice(amount int64) string {
	if amount <= 0 {
		return NoPriceLabel
	}
	return "월 " + groupDigits(amount) + "원"
}

// FormatMonthlyDiscount formats a monthly discount figure ("월 -N원").
func FormatMonthlyDiscount(amount int64) string {
	if amount <= 0 {
		return NoPriceLabel
	}
	return "월 -" + groupDigits(amount) + "원"
}

// FormatDiscount formats a one-time discount figure ("-N원").
func FormatDiscount(amount int64) string {
	if amount <= 0 {
		return NoPriceLabel
	}
	return "-" + groupDigits(amount) + "원"
}

// ParsePrice extracts the first digit/comma run from a formatted price string
// and returns its numeric value. Returns 0 when nothing parses, so
// ParsePrice(FormatPrice(n)) round-trips for any positive n.
func ParsePrice(s string) int64 {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0
	}

	var b strings.Builder
	for _, r := range s[start:] {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',':
			// grouping separator, skip
		default:
			return toInt(b.String())
		}
	}
	return toInt(b.String())
}

func toInt(digits string) int64 {
	var n int64
	for _, r := range digits {
		n = n*10 + int64(r-'0')
	}
	return n
}

func groupDigits(amount int64) string {
	var digits []byte
	for amount > 0 {
		digits = append(digits, byte('0'+amount%10))
		amount /= 10
	}

	var b strings.Builder
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteByte(digits[i])
		if i > 0 && i%3 == 0 {
			b.WriteByte(',')
		}
	}
	return b.String()
}
