// Package product defines the fixed set of sales products scores are kept for.
package product

import (
	"errors"
	"fmt"
)

// ID identifies one of the tracked sales products.
type ID string

const (
	SecuredLoan         ID = "securedLoan"
	SecuredCreditCard   ID = "securedCreditCard"
	UnsecuredLoan       ID = "unsecuredLoan"
	UnsecuredCreditCard ID = "unsecuredCreditCard"
	Bancassurance       ID = "bancassurance"
)

// ErrUnknownProduct is returned when a product identifier is not one of the fixed set.
var ErrUnknownProduct = errors.New("unknown product")

// ErrNegativeScore is returned when a score value is below zero.
var ErrNegativeScore = errors.New("score must not be negative")

var all = [...]ID{
	SecuredLoan,
	SecuredCreditCard,
	UnsecuredLoan,
	UnsecuredCreditCard,
	Bancassurance,
}

// All returns the products in their canonical order.
func All() []ID {
	out := make([]ID, len(all))
	copy(out, all[:])
	return out
}

// Valid reports whether id is one of the known products.
func (id ID) Valid() bool {
	for _, p := range all {
		if p == id {
			return true
		}
	}
	return false
}

// Parse converts s into a product ID.
func Parse(s string) (ID, error) {
	id := ID(s)
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProduct, s)
	}
	return id, nil
}

// Strings returns the canonical product identifiers as plain strings.
func Strings() []string {
	out := make([]string, 0, len(all))
	for _, p := range all {
		out = append(out, string(p))
	}
	return out
}
