// Package delivery provides the Delivery aggregate and its status state machine.
//
// The package includes:
//   - Delivery: the aggregate root owning parties, amount, the live OTP and the timeline
//   - Status: the lifecycle Pending -> InTransit -> Delivered -> Confirmed -> EscrowReleased,
//     with Cancelled reachable from Pending and InTransit
//   - StatusChange: an entry of the status history
//
// Illegal transitions fail with an InvalidState domain error; creation with
// the same buyer and seller fails with InvalidParty. Authorization is not
// checked here: callers pass through services.IdentityGuard first.
package delivery
