package formula

import (
	"errors"
	"math/big"
	"testing"
)

func TestFactorialExample(t *testing.T) {
	got, err := Factorial(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Int64() != 120 {
		t.Fatalf("expected 120, got %s", got)
	}

	zero, _ := Factorial(0)
	if zero.Int64() != 1 {
		t.Fatalf("expected 0! = 1, got %s", zero)
	}
}

func TestFactorialRecurrence(t *testing.T) {
	for n := int64(0); n < MaxFactorial; n++ {
		fn, err := Factorial(n)
		if err != nil {
			t.Fatalf("factorial(%d): %v", n, err)
		}
		next, err := Factorial(n + 1)
		if err != nil {
			t.Fatalf("factorial(%d): %v", n+1, err)
		}
		want := new(big.Int).Mul(fn, big.NewInt(n+1))
		if next.Cmp(want) != 0 {
			t.Fatalf("factorial(%d) != %d * factorial(%d)", n+1, n+1, n)
		}
	}
}

func TestFactorialRejectsOutOfRange(t *testing.T) {
	for _, n := range []int64{-1, MaxFactorial + 1} {
		_, err := Factorial(n)
		var inputErr *InputError
		if !errors.As(err, &inputErr) || inputErr.Code != CodeOutOfRange {
			t.Fatalf("factorial(%d): expected out of range error, got %v", n, err)
		}
	}
}
