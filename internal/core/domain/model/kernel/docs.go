// Package kernel provides core domain primitives shared across the voice
// ordering domain model.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - Money: a decimal value object for prices, totals, and refund amounts
//
// Both primitives are immutable and safe for concurrent use. They enforce
// their own invariants so that aggregates built on top of them never carry
// malformed identifiers or negative amounts.
package kernel
