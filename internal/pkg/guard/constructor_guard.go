// Package guard holds the constructor guard embedded by domain values,
// commands and queries.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built by its constructor. The zero value is
// "not constructed", so a struct literal that skipped the constructor fails Validate.
//
// Example:
//
//	var ErrAmountIsNotConstructed = errors.New("Amount must be created via NewAmount")
//
//	type Amount struct {
//	    value uint64
//	    guard guard.ConstructorGuard
//	}
//
//	func (a Amount) Validate() error {
//	    return a.guard.Validate(ErrAmountIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
