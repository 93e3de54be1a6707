// Package common defines shared constants and sentinel errors used across
// client and stub-store layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Validation errors.
	ErrorIncorrectInput = errors.New("incorrect input")
)
