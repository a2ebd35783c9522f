package utils

import (
	"testing"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{
			name:   "Grouped millions",
			amount: 2600000,
			want:   "2,600,000원",
		},
		{
			name:   "Small amount",
			amount: 500,
			want:   "500원",
		},
		{
			name:   "Exact thousand",
			amount: 1000,
			want:   "1,000원",
		},
		{
			name:   "Zero yields no-price label",
			amount: 0,
			want:   NoPriceLabel,
		},
		{
			name:   "Negative yields no-price label",
			amount: -100,
			want:   NoPriceLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPrice(tt.amount); got != tt.want {
				t.Errorf("FormatPrice(%d) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatMonthlyPrice(t *testing.T) {
	if got := FormatMonthlyPrice(39400); got != "월 39,400원" {
		t.Errorf("FormatMonthlyPrice(39400) = %q", got)
	}
	if got := FormatMonthlyDiscount(26000); got != "월 -26,000원" {
		t.Errorf("FormatMonthlyDiscount(26000) = %q", got)
	}
	if got := FormatMonthlyPrice(0); got != NoPriceLabel {
		t.Errorf("FormatMonthlyPrice(0) = %q, want no-price label", got)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{
			name:  "Plain formatted price",
			input: "2,600,000원",
			want:  2600000,
		},
		{
			name:  "Monthly price",
			input: "월 39,400원",
			want:  39400,
		},
		{
			name:  "Monthly discount",
			input: "월 -26,000원",
			want:  26000,
		},
		{
			name:  "No digits",
			input: NoPriceLabel,
			want:  0,
		},
		{
			name:  "Empty string",
			input: "",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePrice(tt.input); got != tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePriceRoundTrip(t *testing.T) {
	amounts := []int64{1234500, 1, 999, 72000000}
	for _, amount := range amounts {
		if got := ParsePrice(FormatPrice(amount)); got != amount {
			t.Errorf("ParsePrice(FormatPrice(%d)) = %d", amount, got)
		}
	}
}
