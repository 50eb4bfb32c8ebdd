package formula

import "math/big"

// MaxFactorial is the largest n the factorial calculator accepts.
const MaxFactorial = 170

// Factorial returns n! exactly. Negative n and n above MaxFactorial are
// rejected.
func Factorial(n int64) (*big.Int, error) {
	if n < 0 {
		return nil, reject(CodeOutOfRange, "n", "n must not be negative")
	}
	if n > MaxFactorial {
		return nil, reject(CodeOutOfRange, "n", "n must be at most %d", MaxFactorial)
	}
	out := big.NewInt(1)
	for i := int64(2); i <= n; i++ {
		out.Mul(out, big.NewInt(i))
	}
	return out, nil
}
