// Package kernel contains shared value objects used across the freight
// domain model:
//
//   - UUID: validated identifier for entities and aggregates
//   - GeoPoint: geocoded coordinates with great-circle distance support
//   - RoundToCents: the single rounding rule for monetary amounts
//
// All value objects are immutable and must be created through their
// constructor functions; zero values fail validation.
package kernel
