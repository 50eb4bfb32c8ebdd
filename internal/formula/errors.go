package formula

import "fmt"

// Codes carried by InputError.
const (
	CodeRequired      = "required"
	CodeNotANumber    = "not_a_number"
	CodeEmptyList     = "empty_list"
	CodeZeroElement   = "zero_element"
	CodeZeroDivisor   = "zero_divisor"
	CodeOutOfRange    = "out_of_range"
	CodeOverflow      = "overflow"
	CodeDegenerate    = "degenerate_equation"
	CodeInvalidKey    = "invalid_key"
	CodeInvalidChoice = "invalid_choice"
	CodeBadAlphabet   = "invalid_alphabet"
)

// InputError is a rejected-input message. The caller shows Message and
// renders no result.
type InputError struct {
	Code    string
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func reject(code, field, format string, args ...any) *InputError {
	return &InputError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Reject builds an InputError for callers outside the package that validate
// raw inputs before a formula runs.
func Reject(code, field, format string, args ...any) *InputError {
	return reject(code, field, format, args...)
}
