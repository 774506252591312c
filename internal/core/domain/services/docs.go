// Package services provides domain services that coordinate the delivery
// aggregate with the aggregates keyed by it.
//
// The package includes:
//   - IdentityGuard: checks the calling principal against the party an operation requires
//   - ReleasePolicy: the configured answer to "who may release escrow"
//   - ConfirmationService: redeems the OTP, mints the receipt and confirms the delivery
//   - EscrowSettlement: settles the escrow entry together with the delivery status
//
// Services are stateless and side-effect free beyond the aggregates passed in;
// persistence stays with the command handlers.
package services
