package format

import (
	"math/big"
	"testing"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		lang string
		v    float64
		max  int
		want string
	}{
		{lang: "en", v: 2.3, max: 6, want: "2.3"},
		{lang: "en", v: 1234.5, max: 6, want: "1,234.5"},
		{lang: "de", v: 1234.5, max: 6, want: "1.234,5"},
		{lang: "en", v: 1.0 / 3.0, max: 3, want: "0.333"},
		{lang: "en", v: 120, max: 6, want: "120"},
		{lang: "en", v: -0.0000001, max: 6, want: "0"},
		{lang: "xx-invalid-!!", v: 1.5, max: 2, want: "1.5"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := Number(tc.lang, tc.v, tc.max); got != tc.want {
				t.Fatalf("Number(%q, %v, %d): expected %q, got %q", tc.lang, tc.v, tc.max, tc.want, got)
			}
		})
	}
}

func TestBigIntGroupsDigits(t *testing.T) {
	n, _ := new(big.Int).SetString("1307674368000000000000", 10)

	if got := BigInt("en", n); got != "1,307,674,368,000,000,000,000" {
		t.Fatalf("unexpected english grouping %q", got)
	}
	if got := BigInt("de", n); got != "1.307.674.368.000.000.000.000" {
		t.Fatalf("unexpected german grouping %q", got)
	}
	if got := BigInt("en", new(big.Int).Neg(n)); got != "-1,307,674,368,000,000,000,000" {
		t.Fatalf("unexpected negative grouping %q", got)
	}
	if got := BigInt("en", big.NewInt(120)); got != "120" {
		t.Fatalf("expected small value through Integer, got %q", got)
	}
}

func TestValue(t *testing.T) {
	if got := Value("en", "2 ± 1i"); got != "2 ± 1i" {
		t.Fatalf("strings should pass through, got %q", got)
	}
	if got := Value("en", int64(36)); got != "36" {
		t.Fatalf("expected 36, got %q", got)
	}
	if got := Value("en", nil); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
