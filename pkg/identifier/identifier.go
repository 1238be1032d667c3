// Package identifier validates client-supplied album and asset identifiers.
//
// Identifiers are version-4 UUIDs in canonical 8-4-4-4-12 hyphenated form.
// Validation runs before any upstream call so that nothing but a well-formed
// UUID is ever interpolated into an upstream URL.
package identifier

import (
	"errors"

	"github.com/google/uuid"
)

// canonicalLength is the length of the hyphenated 8-4-4-4-12 form.
const canonicalLength = 36

// ErrInvalid is returned when a string is not a canonical UUID v4.
var ErrInvalid = errors.New("invalid identifier")

// ID is a validated identifier in lower-case canonical form.
type ID string

// String returns the identifier as a string.
func (id ID) String() string {
	return string(id)
}

// Valid reports whether s is a hyphenated UUID with version 4 and the
// RFC 4122 variant. Hex digits may be upper or lower case.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Parse validates s and returns its canonical lower-case form.
func Parse(s string) (ID, error) {
	// uuid.Parse also accepts braces, urn: prefixes and the 32-digit form.
	if len(s) != canonicalLength {
		return "", ErrInvalid
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return "", ErrInvalid
	}

	if u.Version() != 4 || u.Variant() != uuid.RFC4122 {
		return "", ErrInvalid
	}

	return ID(u.String()), nil
}
