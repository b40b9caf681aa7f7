// Package id generates 64-bit, roughly time-sortable identifiers without
// central coordination.
//
// # Format
//
// An ID is a uint64 laid out most to least significant as:
//
//	| 1 bit  | 41 bits                | 5 bits    | 5 bits        | 12 bits  |
//	| unused | ms since epoch         | worker ID | datacenter ID | sequence |
//
// The unused top bit is always 0, so an ID is non-negative when read as an
// int64. Big-endian bytes of an ID sort in the same order as the numbers.
//
// # Monotonicity
//
// One Generator per (worker, datacenter) identity. Calls to Next on one
// Generator are serialized; within a millisecond the sequence counts up,
// and once 4096 IDs have been issued in a millisecond the caller waits for
// the clock to advance. Waiting releases the lock between polls, so other
// callers are not starved by a spinning goroutine.
//
// What happens when the wall clock goes backwards is controlled by
// ClockPolicy. The default, ClockAdopt, takes the new clock value as-is and
// resets the sequence, which can repeat IDs issued before the regression.
//
// # Capacity
//
// The timestamp field holds 2^41-1 ms (about 69.7 years) past the epoch.
// The field is not masked: later timestamps spill into the identity bits.
// Generator.Exhausts reports the instant this happens and the generator
// logs a warning the first time it does.
//
// Usage
//
//	g, err := id.New(5, 3)
//	if err != nil { /* handle */ }
//	newID := g.Next()
//	p := newID.Parts()   // Timestamp, WorkerID, DataCenterID, Sequence
//	s := newID.Base58()  // compact text form
package id
