package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidDescription = errors.New("invalid description")
)

// Limits are counted in runes, not bytes, so multibyte names get the
// same budget as ASCII ones.
const (
	MaxAccountNameLength = 255
	MaxDescriptionLength = 1024

	MaxPageSize     = 1000
	DefaultPageSize = 50
)

// ValidateAccountName rejects blank or oversized account names.
func ValidateAccountName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}
	if utf8.RuneCountInString(trimmed) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateDescription rejects oversized transaction descriptions. Empty
// descriptions are allowed; not every expense needs a label.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}

	return nil
}

// ValidatePagination clamps limit and offset into usable ranges rather
// than rejecting them: a missing limit gets the default page size, an
// oversized one is capped, a negative offset becomes zero.
func ValidatePagination(limit, offset int) (int, int, error) {
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
