// Package input provides a reusable value container for a single text
// field with pluggable validation, used by forms to reject bad values
// before they reach the network.
package input

import "strings"

// Validator inspects a raw value and returns an error message, or ""
// when the value is acceptable. Validators run synchronously on every
// change and must not perform I/O.
type Validator func(value string) string

// Field holds one text input's raw value and its validation state.
// Fields are driven by a single UI goroutine and are not synchronized.
type Field struct {
	value    string
	err      string
	validate Validator
}

// New creates a field. validate may be nil, in which case every value
// passes.
func New(validate Validator) *Field {
	return &Field{validate: validate}
}

// Value returns the raw value, exactly as entered
func (f *Field) Value() string {
	return f.value
}

// Trimmed returns the value with surrounding whitespace removed
func (f *Field) Trimmed() string {
	return strings.TrimSpace(f.value)
}

// IsEmpty reports whether the trimmed value is empty
func (f *Field) IsEmpty() bool {
	return f.Trimmed() == ""
}

// Error returns the current error message, "" when there is none
func (f *Field) Error() string {
	return f.err
}

// IsValid reports whether the field can be submitted: non-empty and no
// error
func (f *Field) IsValid() bool {
	return f.err == "" && !f.IsEmpty()
}

// OnChange updates the value and re-runs validation against it
func (f *Field) OnChange(next string) {
	f.value = next
	if f.validate != nil {
		f.err = f.validate(next)
	} else {
		f.err = ""
	}
}

// SetError injects an externally reported error, e.g. a server-side
// rejection after a failed submit
func (f *Field) SetError(msg string) {
	f.err = msg
}

// Reset clears value and error, used after a successful submission or
// cancellation
func (f *Field) Reset() {
	f.value = ""
	f.err = ""
}
