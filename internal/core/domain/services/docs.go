// Package services contains stateless domain services of the freight
// brokering engine.
//
// The package includes:
//   - PriceCalculator: derives minimum, recommended, and contractor prices
//     from route metrics and validates user-proposed prices against the
//     wage floor
//   - CancellationPolicy: resolves penalty tiers from hours-before-pickup
//     and computes the contractor settlement and customer cancellation fee
//
// Both services are pure functions over their inputs and round every
// monetary output to cents.
package services
