// Package kernel provides the value objects shared by every ProofParcel aggregate.
//
// The package includes:
//   - UUID: identifier of deliveries, receipts and notifications (google/uuid)
//   - Principal: opaque caller identity, compared but never interpreted
//   - Amount: positive escrow amount in the single unit of account
//
// Values are immutable and guarded: a zero value fails Validate, so a struct
// literal that bypassed its constructor is caught at aggregate boundaries.
package kernel
