// Package errs provides standardized error types for the ProofParcel service.
//
// Two families live here:
//   - validation and lookup errors (ValueIsRequiredError, ValueIsInvalidError,
//     ValueIsOutOfRangeError, ObjectNotFoundError), each with a sentinel, a
//     struct carrying details, constructors with and without cause, and Unwrap
//     returning the sentinel;
//   - DomainError, the tagged failure returned by delivery operations. Its Kind
//     is one of Unauthorized, InvalidState, InvalidAmount, InvalidParty,
//     OtpNotFound, OtpExpired, OtpMismatch, AlreadyReleased, AlreadyMinted and
//     NotFound.
//
// Callers match with errors.Is against the sentinels or use KindOf to pick a
// transport status.
package errs
