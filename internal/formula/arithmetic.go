package formula

import "strings"

// Operator is one of the four basic arithmetic operations.
type Operator string

const (
	Add      Operator = "add"
	Subtract Operator = "subtract"
	Multiply Operator = "multiply"
	Divide   Operator = "divide"
)

// Operators lists the operators in display order.
var Operators = []Operator{Add, Subtract, Multiply, Divide}

// ParseOperator accepts operator names and their symbols.
func ParseOperator(s string) (Operator, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "+", "plus":
		return Add, true
	case "subtract", "-", "minus":
		return Subtract, true
	case "multiply", "*", "x", "×", "times":
		return Multiply, true
	case "divide", "/", "÷":
		return Divide, true
	}
	return "", false
}

// Apply computes a op b. Division by zero is rejected.
func Apply(op Operator, a, b float64) (float64, error) {
	switch op {
	case Add:
		return a + b, nil
	case Subtract:
		return a - b, nil
	case Multiply:
		return a * b, nil
	case Divide:
		if b == 0 {
			return 0, reject(CodeZeroDivisor, "b", "division by zero")
		}
		return a / b, nil
	}
	return 0, reject(CodeInvalidChoice, "op", "unknown operation %q", op)
}
