package calculator

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"go-chi-calculators/internal/formula"
)

// Kind is the type of a calculator input.
type Kind string

const (
	KindNumber      Kind = "number"
	KindInteger     Kind = "integer"
	KindNatural     Kind = "natural" // arbitrary precision, non-negative
	KindText        Kind = "text"
	KindChoice      Kind = "choice"
	KindIntegerList Kind = "integer_list"
	KindNumberList  Kind = "number_list"
)

// Field declares one input of a calculator. Min, Max and Step are surfaced to
// the HTML form as attributes; the formula applies its own domain policy.
type Field struct {
	Name     string   `json:"name"`
	Kind     Kind     `json:"kind"`
	Required bool     `json:"required"`
	Default  string   `json:"default,omitempty"`
	Choices  []string `json:"choices,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Min      string   `json:"min,omitempty"`
	Max      string   `json:"max,omitempty"`
	Step     string   `json:"step,omitempty"`
}

// Output is one named value of a result. Value is a float64, an int64, a
// *big.Int or a string.
type Output struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// Result is what a calculator produces. StepColumns names the columns of
// Steps when the calculator shows its working.
type Result struct {
	Outputs     []Output
	StepColumns []string
	Steps       [][]string
}

// Float returns the first float64 output, used for metrics.
func (r Result) Float() (float64, bool) {
	for _, o := range r.Outputs {
		switch v := o.Value.(type) {
		case float64:
			return v, true
		case int64:
			return float64(v), true
		}
	}
	return 0, false
}

// Descriptor binds an input schema to a pure function.
type Descriptor struct {
	Category string
	Slug     string
	Fields   []Field
	Compute  func(Inputs) (Result, error)
}

// Key is the "category/slug" identifier of the calculator.
func (d Descriptor) Key() string { return d.Category + "/" + d.Slug }

// Field looks up a declared field by name.
func (d Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Evaluate parses raw and runs the calculator. Rejected input is returned as
// *formula.InputError.
func (d Descriptor) Evaluate(raw map[string]string) (Result, error) {
	in, err := Parse(d, raw)
	if err != nil {
		return Result{}, err
	}
	res, err := d.Compute(in)
	if err != nil {
		return Result{}, err
	}
	// JSON has no encoding for NaN or the infinities.
	for _, o := range res.Outputs {
		if v, ok := o.Value.(float64); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return Result{}, formula.Reject(formula.CodeOverflow, "", "the result is too large")
		}
	}
	return res, nil
}

// HasInput reports whether raw carries a value for any declared field.
func (d Descriptor) HasInput(raw map[string]string) bool {
	for _, f := range d.Fields {
		if strings.TrimSpace(raw[f.Name]) != "" {
			return true
		}
	}
	return false
}

// Inputs holds parsed, typed input values.
type Inputs struct {
	values map[string]any
}

func (in Inputs) Number(name string) float64 {
	v, _ := in.values[name].(float64)
	return v
}

func (in Inputs) Integer(name string) int64 {
	v, _ := in.values[name].(int64)
	return v
}

func (in Inputs) Natural(name string) *big.Int {
	if v, ok := in.values[name].(*big.Int); ok {
		return v
	}
	return new(big.Int)
}

func (in Inputs) Text(name string) string {
	v, _ := in.values[name].(string)
	return v
}

func (in Inputs) IntegerList(name string) []int64 {
	v, _ := in.values[name].([]int64)
	return v
}

func (in Inputs) NumberList(name string) []float64 {
	v, _ := in.values[name].([]float64)
	return v
}

// Parse converts raw string inputs into typed values following d.Fields.
// Missing values take the field default; a missing required value, a
// malformed number or an unknown choice is rejected.
func Parse(d Descriptor, raw map[string]string) (Inputs, error) {
	in := Inputs{values: make(map[string]any, len(d.Fields))}
	for _, f := range d.Fields {
		s := raw[f.Name]
		if f.Kind != KindText {
			s = strings.TrimSpace(s)
		}
		if strings.TrimSpace(s) == "" {
			s = f.Default
		}
		if s == "" {
			if f.Required {
				return Inputs{}, formula.Reject(formula.CodeRequired, f.Name, "a value is required")
			}
			continue
		}

		v, err := parseValue(f, s)
		if err != nil {
			return Inputs{}, err
		}
		in.values[f.Name] = v
	}
	return in, nil
}

func parseValue(f Field, s string) (any, error) {
	switch f.Kind {
	case KindNumber:
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, formula.Reject(formula.CodeNotANumber, f.Name, "%q is not a number", s)
		}
		return v, nil
	case KindInteger:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, formula.Reject(formula.CodeNotANumber, f.Name, "%q is not a whole number", s)
		}
		return v, nil
	case KindNatural:
		return formula.ParseNatural(f.Name, s)
	case KindChoice:
		for _, c := range f.Choices {
			if strings.EqualFold(c, s) {
				return c, nil
			}
		}
		return nil, formula.Reject(formula.CodeInvalidChoice, f.Name, "%q is not one of %s", s, strings.Join(f.Choices, ", "))
	case KindIntegerList:
		v, err := formula.ParseNumberList(s)
		return v, withField(err, f.Name)
	case KindNumberList:
		v, err := formula.ParseFloatList(s)
		return v, withField(err, f.Name)
	default:
		return s, nil
	}
}

func withField(err error, name string) error {
	if err == nil {
		return nil
	}
	if ie, ok := err.(*formula.InputError); ok && ie.Field == "" {
		ie.Field = name
		return ie
	}
	return err
}
