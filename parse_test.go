package tracker

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,234.50", 1234.50},
		{"1234.5", 1234.5},
		{" 42 ", 42},
		{"—", 0},
		{"-", 0},
		{"--", 0},
		{"", 0},
		{"C31.86", 31.86},
		{"C", 0}, // lone 'C' is not a currency prefix
		{"-12.5", -12.5},
		{"garbage", 0},
		{"1,000,000", 1000000},
	}
	for _, tc := range tests {
		if got := ParseNumber(tc.in); !almostEqual(got, tc.want) {
			t.Errorf("ParseNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParsePercentage(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"5%", 0.05},
		{"-2.5%", -0.025},
		{"—", 0},
		{"-", 0},
		{"", 0},
		{"5", 5.0}, // bare numbers are taken at face value
		{"abc%", 0},
	}
	for _, tc := range tests {
		if got := ParsePercentage(tc.in); !almostEqual(got, tc.want) {
			t.Errorf("ParsePercentage(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCleanInstrumentName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  MSCI World  ", "MSCI World"},
		{"MSCI\u00a0World", "MSCIWorld"},
		{"\u00a0ABC\u00a0", "ABC"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := CleanInstrumentName(tc.in); got != tc.want {
			t.Errorf("CleanInstrumentName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsSummaryRow(t *testing.T) {
	for _, name := range []string{"Total", "Grand Total", "SUM", "Pending orders"} {
		if !isSummaryRow(name) {
			t.Errorf("isSummaryRow(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"MSCI World", "S&P 500", "Gold ETC"} {
		if isSummaryRow(name) {
			t.Errorf("isSummaryRow(%q) = true, want false", name)
		}
	}
}

func TestParseFileUnsupportedFormat(t *testing.T) {
	_, _, err := ParseFile("holdings.pdf")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ParseFile(.pdf) error = %v, want ErrUnsupportedFormat", err)
	}
}
