package formula

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// ParseNumberList splits s on commas, semicolons and whitespace and parses
// every token as a base-10 integer.
func ParseNumberList(s string) ([]int64, error) {
	tokens := splitList(s)
	if len(tokens) == 0 {
		return nil, reject(CodeEmptyList, "", "enter at least one number")
	}
	out := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, reject(CodeNotANumber, "", "%q is not a whole number", tok)
		}
		out = append(out, n)
	}
	return out, nil
}

// ParseFloatList is ParseNumberList for real numbers.
func ParseFloatList(s string) ([]float64, error) {
	tokens := splitList(s)
	if len(tokens) == 0 {
		return nil, reject(CodeEmptyList, "", "enter at least one number")
	}
	out := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, reject(CodeNotANumber, "", "%q is not a number", tok)
		}
		out = append(out, f)
	}
	return out, nil
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func gcd2(a, b int64) int64 {
	a, b = abs64(a), abs64(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func checkOperands(numbers []int64) error {
	if len(numbers) == 0 {
		return reject(CodeEmptyList, "numbers", "enter at least one number")
	}
	for _, n := range numbers {
		if n == 0 {
			return reject(CodeZeroElement, "numbers", "zero is not allowed")
		}
		if n == math.MinInt64 {
			return reject(CodeOverflow, "numbers", "%d is too large", n)
		}
	}
	return nil
}

// GCD folds the list pairwise with Euclid's algorithm. An empty list or a
// zero element is rejected.
func GCD(numbers []int64) (int64, error) {
	if err := checkOperands(numbers); err != nil {
		return 0, err
	}
	g := abs64(numbers[0])
	for _, n := range numbers[1:] {
		g = gcd2(g, n)
	}
	return g, nil
}

// LCM folds the list pairwise with |a*b|/gcd(a,b). It has the same input
// rules as GCD and rejects results that do not fit in an int64.
func LCM(numbers []int64) (int64, error) {
	if err := checkOperands(numbers); err != nil {
		return 0, err
	}
	acc := big.NewInt(abs64(numbers[0]))
	for _, n := range numbers[1:] {
		b := big.NewInt(abs64(n))
		g := new(big.Int).GCD(nil, nil, acc, b)
		acc.Mul(acc, b).Quo(acc, g)
		if !acc.IsInt64() {
			return 0, reject(CodeOverflow, "numbers", "the least common multiple is too large")
		}
	}
	return acc.Int64(), nil
}

// Fraction is a reduced fraction with the sign carried by the numerator.
type Fraction struct {
	Numerator   int64
	Denominator int64
}

func (f Fraction) String() string {
	if f.Denominator == 1 {
		return strconv.FormatInt(f.Numerator, 10)
	}
	return strconv.FormatInt(f.Numerator, 10) + "/" + strconv.FormatInt(f.Denominator, 10)
}

// Mixed splits an improper fraction into a whole part and a proper remainder.
func (f Fraction) Mixed() (whole int64, rest Fraction) {
	whole = f.Numerator / f.Denominator
	return whole, Fraction{Numerator: abs64(f.Numerator % f.Denominator), Denominator: f.Denominator}
}

// SimplifyFraction divides both terms by their GCD.
func SimplifyFraction(numerator, denominator int64) (Fraction, error) {
	if denominator == 0 {
		return Fraction{}, reject(CodeZeroDivisor, "denominator", "the denominator must not be zero")
	}
	if numerator == math.MinInt64 || denominator == math.MinInt64 {
		return Fraction{}, reject(CodeOverflow, "", "the fraction is too large")
	}
	if numerator == 0 {
		return Fraction{Numerator: 0, Denominator: 1}, nil
	}
	g := gcd2(numerator, denominator)
	n, d := numerator/g, denominator/g
	if d < 0 {
		n, d = -n, -d
	}
	return Fraction{Numerator: n, Denominator: d}, nil
}
