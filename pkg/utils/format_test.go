package utils

import "testing"

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{999.5, "$999.50"},
		{1000, "$1,000.00"},
		{123456.78, "$123,456.78"},
		{1234567.89, "$1,234,567.89"},
		{-2500, "-$2,500.00"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.amount); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(12.345); got != "+12.35%" {
		t.Errorf("FormatPercent(12.345) = %q", got)
	}
	if got := FormatPercent(-3.2); got != "-3.20%" {
		t.Errorf("FormatPercent(-3.2) = %q", got)
	}
	if got := FormatPercent(0); got != "0.00%" {
		t.Errorf("FormatPercent(0) = %q", got)
	}
}

func TestFormatPnL(t *testing.T) {
	if got := FormatPnL(1500); got != "+$1,500.00" {
		t.Errorf("FormatPnL(1500) = %q", got)
	}
	if got := FormatPnL(-750.25); got != "-$750.25" {
		t.Errorf("FormatPnL(-750.25) = %q", got)
	}
}

func TestFormatCompact(t *testing.T) {
	if got := FormatCompact(2500000); got != "2.50M" {
		t.Errorf("FormatCompact(2500000) = %q", got)
	}
	if got := FormatCompact(12345); got != "12.3K" {
		t.Errorf("FormatCompact(12345) = %q", got)
	}
	if got := FormatCompact(42.5); got != "42.50" {
		t.Errorf("FormatCompact(42.5) = %q", got)
	}
}
