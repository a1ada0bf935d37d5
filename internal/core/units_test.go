package core

import (
	"math"
	"testing"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		nan  bool
	}{
		{"12.5", 12.5, false},
		{" 40000 ", 40000, false},
		{"-3", -3, false},
		{"1e3", 1000, false},
		{"", 0, true},
		{"abc", 0, true},
		{"12,5", 0, true},
	}
	for _, tc := range cases {
		got := ParseQuantity(tc.in)
		if tc.nan {
			if !math.IsNaN(got) {
				t.Fatalf("ParseQuantity(%q) = %v, want NaN", tc.in, got)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("ParseQuantity(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{112000, "112000"},
		{0.035, "0.035"},
		{-20, "-20"},
		{1234.5, "1234.5"},
		{math.NaN(), "NaN"},
	}
	for _, tc := range cases {
		if got := FormatQuantity(tc.in); got != tc.want {
			t.Fatalf("FormatQuantity(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatKg(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.999, "1,000.00"},
		{1234567.891, "1,234,567.89"},
		{-1500, "-1,500.00"},
		{100, "100.00"},
		{math.NaN(), "NaN"},
	}
	for _, tc := range cases {
		if got := FormatKg(tc.in); got != tc.want {
			t.Fatalf("FormatKg(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestKgToTonnes(t *testing.T) {
	if got := KgToTonnes(2500); got != 2.5 {
		t.Fatalf("KgToTonnes = %v", got)
	}
}
