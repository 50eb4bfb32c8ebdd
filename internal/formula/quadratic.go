package formula

import (
	"math"
	"strconv"
)

// Epsilon is the tolerance under which a coefficient or discriminant is
// treated as zero.
const Epsilon = 1e-12

// RootKind classifies the solution of a quadratic equation.
type RootKind string

const (
	RootsTwoReal  RootKind = "two_real"
	RootsRepeated RootKind = "repeated"
	RootsComplex  RootKind = "complex"
	RootsLinear   RootKind = "linear"
)

// Root is a real or complex root.
type Root struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// IsReal reports whether the imaginary part is zero.
func (r Root) IsReal() bool { return r.Im == 0 }

func (r Root) String() string {
	if r.IsReal() {
		return FormatFloat(r.Re)
	}
	sign := "+"
	im := r.Im
	if im < 0 {
		sign = "-"
		im = -im
	}
	return FormatFloat(r.Re) + " " + sign + " " + FormatFloat(im) + "i"
}

// Quadratic is the solution of a·x² + b·x + c = 0.
type Quadratic struct {
	Kind         RootKind `json:"kind"`
	Discriminant float64  `json:"discriminant"`
	Roots        []Root   `json:"roots"`
	// Formatted is the display form: the real roots joined by ", " or the
	// conjugate pair as "re ± im·i".
	Formatted string `json:"formatted"`
}

// QuadraticRoots solves a·x² + b·x + c = 0. With a ≈ 0 it degrades to the
// linear equation; a constant equation is rejected because it has either no
// solution or every x as a solution.
func QuadraticRoots(a, b, c float64) (Quadratic, error) {
	for _, v := range []float64{a, b, c} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Quadratic{}, reject(CodeNotANumber, "", "coefficients must be finite numbers")
		}
	}

	if math.Abs(a) < Epsilon {
		if math.Abs(b) < Epsilon {
			if math.Abs(c) < Epsilon {
				return Quadratic{}, reject(CodeDegenerate, "", "every x satisfies the equation")
			}
			return Quadratic{}, reject(CodeDegenerate, "", "the equation has no solution")
		}
		root := Root{Re: cleanZero(-c / b)}
		return Quadratic{Kind: RootsLinear, Roots: []Root{root}, Formatted: root.String()}, nil
	}

	d := b*b - 4*a*c
	switch {
	case math.Abs(d) < Epsilon:
		root := Root{Re: cleanZero(-b / (2 * a))}
		return Quadratic{Kind: RootsRepeated, Discriminant: 0, Roots: []Root{root}, Formatted: root.String()}, nil
	case d > 0:
		// q never subtracts nearly equal values, so both roots keep their
		// precision when |b| dwarfs |a·c|.
		q := -(b + math.Copysign(math.Sqrt(d), b)) / 2
		plus, minus := q/a, c/q
		if b >= 0 {
			plus, minus = c/q, q/a
		}
		r1 := Root{Re: cleanZero(plus)}
		r2 := Root{Re: cleanZero(minus)}
		return Quadratic{
			Kind:         RootsTwoReal,
			Discriminant: d,
			Roots:        []Root{r1, r2},
			Formatted:    r1.String() + ", " + r2.String(),
		}, nil
	default:
		re := cleanZero(-b / (2 * a))
		im := math.Abs(math.Sqrt(-d) / (2 * a))
		return Quadratic{
			Kind:         RootsComplex,
			Discriminant: d,
			Roots:        []Root{{Re: re, Im: im}, {Re: re, Im: -im}},
			Formatted:    FormatFloat(re) + " ± " + FormatFloat(im) + "i",
		}, nil
	}
}

func cleanZero(f float64) float64 {
	if f == 0 {
		return 0 // drops negative zero
	}
	return f
}

// FormatFloat renders f with at most six decimals and no trailing zeros.
func FormatFloat(f float64) string {
	rounded := math.Round(f*1e6) / 1e6
	return strconv.FormatFloat(cleanZero(rounded), 'f', -1, 64)
}
