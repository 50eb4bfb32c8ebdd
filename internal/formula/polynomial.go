package formula

import "math"

// Horner is the value of a polynomial at X together with the running values
// produced by Horner's scheme. Partials[i] is the accumulated value after
// coefficient i; the last entry equals Value.
type Horner struct {
	X        float64   `json:"x"`
	Value    float64   `json:"value"`
	Partials []float64 `json:"partials"`
}

// EvaluatePolynomial evaluates the polynomial with coefficients given from the
// highest degree down at x, using Horner's scheme.
func EvaluatePolynomial(coefficients []float64, x float64) (Horner, error) {
	if len(coefficients) == 0 {
		return Horner{}, reject(CodeEmptyList, "coefficients", "enter at least one coefficient")
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Horner{}, reject(CodeNotANumber, "x", "x must be a finite number")
	}
	partials := make([]float64, 0, len(coefficients))
	acc := 0.0
	for _, c := range coefficients {
		acc = acc*x + c
		partials = append(partials, acc)
	}
	return Horner{X: x, Value: acc, Partials: partials}, nil
}
