package validator

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
)

// Validator type which contains a map of validation errors.
type Validator struct {
	Errors map[string]string
}

// New creates a new Validator instance with an initialized errors map.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the errors map is empty, indicating no validation errors.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error message to the errors map, only if the key does not already exist.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check adds an error message if a validation check fails.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// PermittedValue checks if a value is present in a list of permitted values.
func PermittedValue[T comparable](value T, permittedValues ...T) bool {
	return slices.Contains(permittedValues, value)
}

// Between checks that value lies in the closed range [lo, hi].
func Between[T cmp.Ordered](value, lo, hi T) bool {
	return value >= lo && value <= hi
}

// NotBlank checks that a string has at least one non-space character.
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// ByteSize checks that value is a human-readable size such as "2M" or "512 KiB".
func ByteSize(value string) bool {
	_, err := humanize.ParseBytes(value)
	return err == nil
}
