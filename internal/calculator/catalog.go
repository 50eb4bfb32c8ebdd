package calculator

import (
	"strconv"

	"go-chi-calculators/internal/formula"
)

const (
	CategoryElectrical = "electrical"
	CategoryMath       = "math"
	CategoryCipher     = "cipher"
)

var (
	phaseChoices    = []string{string(formula.DC), string(formula.SinglePhase), string(formula.ThreePhase)}
	operatorChoices = []string{string(formula.Add), string(formula.Subtract), string(formula.Multiply), string(formula.Divide)}
	modeChoices     = []string{"encode", "decode"}
)

func number(name, unit string) Field {
	return Field{Name: name, Kind: KindNumber, Required: true, Unit: unit, Step: "any"}
}

func powerFactor() Field {
	return Field{Name: "power_factor", Kind: KindNumber, Required: true, Default: "1", Min: "0", Max: "1", Step: "0.01"}
}

func phase() Field {
	return Field{Name: "phase", Kind: KindChoice, Required: true, Default: string(formula.SinglePhase), Choices: phaseChoices}
}

func single(name string, v any, unit string) Result {
	return Result{Outputs: []Output{{Name: name, Value: v, Unit: unit}}}
}

func phaseOf(in Inputs) formula.Phase {
	p, _ := formula.ParsePhase(in.Text("phase"))
	return p
}

// Default returns the registry of every built-in calculator.
func Default() *Registry {
	r, err := NewRegistry(Catalog()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Catalog lists the built-in calculators.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			Category: CategoryElectrical, Slug: "amp-to-kva",
			Fields: []Field{number("amps", "A"), number("volts", "V")},
			Compute: func(in Inputs) (Result, error) {
				return single("kva", formula.AmpToKVA(in.Number("amps"), in.Number("volts")), "kVA"), nil
			},
		},
		{
			Category: CategoryElectrical, Slug: "kva-to-amp",
			Fields: []Field{number("kva", "kVA"), number("volts", "V")},
			Compute: func(in Inputs) (Result, error) {
				return single("amps", formula.KVAToAmp(in.Number("kva"), in.Number("volts")), "A"), nil
			},
		},
		{
			Category: CategoryElectrical, Slug: "kw-to-kva",
			Fields: []Field{number("kw", "kW"), powerFactor()},
			Compute: func(in Inputs) (Result, error) {
				return single("kva", formula.KWToKVA(in.Number("kw"), in.Number("power_factor")), "kVA"), nil
			},
		},
		{
			Category: CategoryElectrical, Slug: "kva-to-kw",
			Fields: []Field{number("kva", "kVA"), powerFactor()},
			Compute: func(in Inputs) (Result, error) {
				return single("kw", formula.KVAToKW(in.Number("kva"), in.Number("power_factor")), "kW"), nil
			},
		},
		{
			Category: CategoryElectrical, Slug: "kw-to-volts",
			Fields: []Field{number("kw", "kW"), number("amps", "A"), powerFactor(), phase()},
			Compute: func(in Inputs) (Result, error) {
				v := formula.KWToVolts(in.Number("kw"), in.Number("amps"), in.Number("power_factor"), phaseOf(in))
				return single("volts", v, "V"), nil
			},
		},
		{
			Category: CategoryElectrical, Slug: "kw-to-amps",
			Fields: []Field{number("kw", "kW"), number("volts", "V"), powerFactor(), phase()},
			Compute: func(in Inputs) (Result, error) {
				a := formula.KWToAmps(in.Number("kw"), in.Number("volts"), in.Number("power_factor"), phaseOf(in))
				return single("amps", a, "A"), nil
			},
		},
		{
			Category: CategoryElectrical, Slug: "amps-to-kw",
			Fields: []Field{number("amps", "A"), number("volts", "V"), powerFactor(), phase()},
			Compute: func(in Inputs) (Result, error) {
				kw := formula.AmpsToKW(in.Number("amps"), in.Number("volts"), in.Number("power_factor"), phaseOf(in))
				return single("kw", kw, "kW"), nil
			},
		},
		{
			Category: CategoryElectrical, Slug: "watts-to-amps",
			Fields: []Field{number("watts", "W"), number("volts", "V")},
			Compute: func(in Inputs) (Result, error) {
				return single("amps", formula.WattsToAmps(in.Number("watts"), in.Number("volts")), "A"), nil
			},
		},
		{
			Category: CategoryElectrical, Slug: "amps-to-watts",
			Fields: []Field{number("amps", "A"), number("volts", "V")},
			Compute: func(in Inputs) (Result, error) {
				return single("watts", formula.AmpsToWatts(in.Number("amps"), in.Number("volts")), "W"), nil
			},
		},
		{
			Category: CategoryElectrical, Slug: "ohms-law",
			Fields: []Field{
				{Name: "volts", Kind: KindNumber, Unit: "V", Step: "any"},
				{Name: "amps", Kind: KindNumber, Unit: "A", Step: "any"},
				{Name: "ohms", Kind: KindNumber, Unit: "Ω", Step: "any"},
			},
			Compute: func(in Inputs) (Result, error) {
				o, err := formula.OhmsLaw(in.Number("volts"), in.Number("amps"), in.Number("ohms"))
				if err != nil {
					return Result{}, err
				}
				return Result{Outputs: []Output{
					{Name: "volts", Value: o.Volts, Unit: "V"},
					{Name: "amps", Value: o.Amps, Unit: "A"},
					{Name: "ohms", Value: o.Ohms, Unit: "Ω"},
					{Name: "watts", Value: o.Watts, Unit: "W"},
				}}, nil
			},
		},
		{
			Category: CategoryMath, Slug: "arithmetic",
			Fields: []Field{
				number("a", ""),
				{Name: "op", Kind: KindChoice, Required: true, Default: string(formula.Add), Choices: operatorChoices},
				number("b", ""),
			},
			Compute: func(in Inputs) (Result, error) {
				op, _ := formula.ParseOperator(in.Text("op"))
				v, err := formula.Apply(op, in.Number("a"), in.Number("b"))
				if err != nil {
					return Result{}, err
				}
				return single("result", v, ""), nil
			},
		},
		{
			Category: CategoryMath, Slug: "gcd",
			Fields: []Field{{Name: "numbers", Kind: KindIntegerList, Required: true}},
			Compute: func(in Inputs) (Result, error) {
				g, err := formula.GCD(in.IntegerList("numbers"))
				if err != nil {
					return Result{}, err
				}
				return single("gcd", g, ""), nil
			},
		},
		{
			Category: CategoryMath, Slug: "lcm",
			Fields: []Field{{Name: "numbers", Kind: KindIntegerList, Required: true}},
			Compute: func(in Inputs) (Result, error) {
				l, err := formula.LCM(in.IntegerList("numbers"))
				if err != nil {
					return Result{}, err
				}
				return single("lcm", l, ""), nil
			},
		},
		{
			Category: CategoryMath, Slug: "factorial",
			Fields: []Field{{Name: "n", Kind: KindInteger, Required: true, Min: "0", Max: strconv.Itoa(formula.MaxFactorial), Step: "1"}},
			Compute: func(in Inputs) (Result, error) {
				f, err := formula.Factorial(in.Integer("n"))
				if err != nil {
					return Result{}, err
				}
				return Result{Outputs: []Output{
					{Name: "factorial", Value: f},
					{Name: "digits", Value: int64(len(f.String()))},
				}}, nil
			},
		},
		{
			Category: CategoryMath, Slug: "long-division",
			Fields: []Field{
				{Name: "dividend", Kind: KindNatural, Required: true},
				{Name: "divisor", Kind: KindNatural, Required: true},
			},
			Compute: func(in Inputs) (Result, error) {
				d, err := formula.LongDivision(in.Natural("dividend"), in.Natural("divisor"))
				if err != nil {
					return Result{}, err
				}
				steps := make([][]string, 0, len(d.Steps))
				for _, s := range d.Steps {
					steps = append(steps, []string{
						s.PartialDividend.String(),
						strconv.Itoa(s.QuotientDigit),
						s.Product.String(),
						s.Remainder.String(),
					})
				}
				return Result{
					Outputs: []Output{
						{Name: "quotient", Value: d.Quotient},
						{Name: "remainder", Value: d.Remainder},
					},
					StepColumns: []string{"partial_dividend", "quotient_digit", "product", "remainder"},
					Steps:       steps,
				}, nil
			},
		},
		{
			Category: CategoryMath, Slug: "quadratic",
			Fields: []Field{number("a", ""), number("b", ""), number("c", "")},
			Compute: func(in Inputs) (Result, error) {
				q, err := formula.QuadraticRoots(in.Number("a"), in.Number("b"), in.Number("c"))
				if err != nil {
					return Result{}, err
				}
				return Result{Outputs: []Output{
					{Name: "roots", Value: q.Formatted},
					{Name: "root_kind", Value: string(q.Kind)},
					{Name: "discriminant", Value: q.Discriminant},
				}}, nil
			},
		},
		{
			Category: CategoryMath, Slug: "polynomial",
			Fields: []Field{
				{Name: "coefficients", Kind: KindNumberList, Required: true},
				number("x", ""),
			},
			Compute: func(in Inputs) (Result, error) {
				coeffs := in.NumberList("coefficients")
				h, err := formula.EvaluatePolynomial(coeffs, in.Number("x"))
				if err != nil {
					return Result{}, err
				}
				steps := make([][]string, 0, len(h.Partials))
				for i, p := range h.Partials {
					steps = append(steps, []string{formula.FormatFloat(coeffs[i]), formula.FormatFloat(p)})
				}
				return Result{
					Outputs:     []Output{{Name: "value", Value: h.Value}},
					StepColumns: []string{"coefficient", "running_value"},
					Steps:       steps,
				}, nil
			},
		},
		{
			Category: CategoryMath, Slug: "simplify-fraction",
			Fields: []Field{
				{Name: "numerator", Kind: KindInteger, Required: true, Step: "1"},
				{Name: "denominator", Kind: KindInteger, Required: true, Step: "1"},
			},
			Compute: func(in Inputs) (Result, error) {
				f, err := formula.SimplifyFraction(in.Integer("numerator"), in.Integer("denominator"))
				if err != nil {
					return Result{}, err
				}
				whole, rest := f.Mixed()
				mixed := f.String()
				if whole != 0 && rest.Numerator != 0 {
					mixed = strconv.FormatInt(whole, 10) + " " + rest.String()
				}
				return Result{Outputs: []Output{
					{Name: "fraction", Value: f.String()},
					{Name: "mixed_number", Value: mixed},
					{Name: "decimal", Value: float64(f.Numerator) / float64(f.Denominator)},
				}}, nil
			},
		},
		{
			Category: CategoryCipher, Slug: "caesar",
			Fields: []Field{
				{Name: "text", Kind: KindText, Required: true},
				{Name: "shift", Kind: KindInteger, Required: true, Default: "3", Step: "1"},
				{Name: "alphabet", Kind: KindChoice, Required: true, Default: "latin", Choices: formula.AlphabetNames()},
				{Name: "mode", Kind: KindChoice, Required: true, Default: "encode", Choices: modeChoices},
			},
			Compute: func(in Inputs) (Result, error) {
				a, _ := formula.LookupAlphabet(in.Text("alphabet"))
				out := formula.CaesarShift(in.Text("text"), int(in.Integer("shift")%int64(a.Len())), a, in.Text("mode") == "decode")
				return single("text", out, ""), nil
			},
		},
		{
			Category: CategoryCipher, Slug: "vigenere",
			Fields: []Field{
				{Name: "text", Kind: KindText, Required: true},
				{Name: "key", Kind: KindText, Required: true},
				{Name: "alphabet", Kind: KindChoice, Required: true, Default: "latin", Choices: formula.AlphabetNames()},
				{Name: "mode", Kind: KindChoice, Required: true, Default: "encode", Choices: modeChoices},
			},
			Compute: func(in Inputs) (Result, error) {
				a, _ := formula.LookupAlphabet(in.Text("alphabet"))
				out, err := formula.VigenereCipher(in.Text("text"), in.Text("key"), a, in.Text("mode") == "decode")
				if err != nil {
					return Result{}, err
				}
				return single("text", out, ""), nil
			},
		},
	}
}
