// Package format renders calculator outputs for a locale.
package format

import (
	"math"
	"math/big"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultPrecision is the number of fraction digits shown for real outputs.
const DefaultPrecision = 6

func printer(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// Number formats v with locale grouping and at most maxFraction fraction
// digits. Trailing zeros are dropped.
func Number(lang string, v float64, maxFraction int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	if maxFraction < 0 {
		maxFraction = DefaultPrecision
	}
	// Round first so that -0.0000001 does not print as "-0".
	scale := math.Pow(10, float64(maxFraction))
	if r := math.Round(v*scale) / scale; r == 0 {
		v = 0
	}
	return printer(lang).Sprint(number.Decimal(v, number.MaxFractionDigits(maxFraction)))
}

// Integer formats n with locale grouping.
func Integer(lang string, n int64) string {
	return printer(lang).Sprint(number.Decimal(n))
}

// BigInt formats n with the locale's grouping separator. Values that fit in
// an int64 go through Integer.
func BigInt(lang string, n *big.Int) string {
	if n == nil {
		return ""
	}
	if n.IsInt64() {
		return Integer(lang, n.Int64())
	}
	sep := groupSeparator(lang)
	digits := new(big.Int).Abs(n).String()

	var b strings.Builder
	if n.Sign() < 0 {
		b.WriteByte('-')
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// groupSeparator derives the thousands separator from how the locale prints
// a known value.
func groupSeparator(lang string) string {
	s := printer(lang).Sprint(number.Decimal(1234567))
	s = strings.TrimPrefix(s, "1")
	r, _ := utf8.DecodeRuneInString(s)
	if r == '2' || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// Value formats one calculator output value. Strings pass through.
func Value(lang string, v any) string {
	switch x := v.(type) {
	case float64:
		return Number(lang, x, DefaultPrecision)
	case int64:
		return Integer(lang, x)
	case int:
		return Integer(lang, int64(x))
	case *big.Int:
		return BigInt(lang, x)
	case string:
		return x
	case nil:
		return ""
	default:
		return printer(lang).Sprint(x)
	}
}
