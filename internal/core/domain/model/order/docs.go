// Package order provides the Order aggregate of the freight brokering
// engine together with its value objects.
//
// The package includes:
//   - Order: the aggregate root carrying route, pricing, pickup window,
//     cancellation audit record, and the monitor idempotency flags
//   - Status: a state machine enforcing the order lifecycle
//     pending -> accepted -> in_transit -> completed, with cancellations
//     either returning the order to the unmatched pool (contractor) or
//     terminating it (customer)
//   - Waypoint: a postal address with lazily-resolved coordinates
//   - PickupWindow: the expected pickup interval driving penalty tiers and
//     expiration
//   - Cancellation: the immutable audit sub-record written at cancellation
//     time
//
// Key business rules:
//   - The customer price never changes after creation; only contractor-side
//     prices move through cancellation and re-assignment.
//   - The cancellation record stores hours-before-pickup, penalty, and
//     available budget computed once at the instant of cancellation.
//   - The monitor flags are one-way latches flipped only after their
//     gating side effect has been confirmed.
package order
