package formula

import (
	"math/big"
	"strings"
)

// DivisionStep is one digit of schoolbook long division: bring down the next
// dividend digit to form PartialDividend, write QuotientDigit, subtract
// Product and carry Remainder to the next digit.
type DivisionStep struct {
	PartialDividend *big.Int `json:"partialDividend"`
	QuotientDigit   int      `json:"quotientDigit"`
	Product         *big.Int `json:"product"`
	Remainder       *big.Int `json:"remainder"`
}

// Division is the outcome of LongDivision.
type Division struct {
	Quotient  *big.Int       `json:"quotient"`
	Remainder *big.Int       `json:"remainder"`
	Steps     []DivisionStep `json:"steps"`
}

// ParseNatural parses a non-negative decimal integer of any length. Digit
// group separators (spaces, underscores, commas) are ignored.
func ParseNatural(field, s string) (*big.Int, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', ',':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if cleaned == "" {
		return nil, reject(CodeRequired, field, "enter a whole number")
	}
	if strings.HasPrefix(cleaned, "-") {
		return nil, reject(CodeOutOfRange, field, "the number must not be negative")
	}
	cleaned = strings.TrimPrefix(cleaned, "+")
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return nil, reject(CodeNotANumber, field, "%q is not a whole number", s)
		}
	}
	n, ok := new(big.Int).SetString(cleaned, 10)
	if !ok {
		return nil, reject(CodeNotANumber, field, "%q is not a whole number", s)
	}
	return n, nil
}

// LongDivision divides dividend by divisor one decimal digit at a time and
// records every step. Both operands must be non-negative and the divisor
// non-zero.
func LongDivision(dividend, divisor *big.Int) (Division, error) {
	if dividend == nil || divisor == nil {
		return Division{}, reject(CodeRequired, "", "enter a dividend and a divisor")
	}
	if divisor.Sign() == 0 {
		return Division{}, reject(CodeZeroDivisor, "divisor", "division by zero is undefined")
	}
	if dividend.Sign() < 0 || divisor.Sign() < 0 {
		return Division{}, reject(CodeOutOfRange, "", "long division needs non-negative numbers")
	}

	ten := big.NewInt(10)
	digits := dividend.String()
	steps := make([]DivisionStep, 0, len(digits))
	quotient := new(big.Int)
	rem := new(big.Int)

	for _, d := range digits {
		partial := new(big.Int).Mul(rem, ten)
		partial.Add(partial, big.NewInt(int64(d-'0')))

		q, r := new(big.Int).QuoRem(partial, divisor, new(big.Int))
		product := new(big.Int).Mul(q, divisor)

		steps = append(steps, DivisionStep{
			PartialDividend: partial,
			QuotientDigit:   int(q.Int64()),
			Product:         product,
			Remainder:       new(big.Int).Set(r),
		})

		quotient.Mul(quotient, ten).Add(quotient, q)
		rem = r
	}

	return Division{Quotient: quotient, Remainder: rem, Steps: steps}, nil
}
