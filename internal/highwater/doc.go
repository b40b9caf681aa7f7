// Package highwater persists, per node identity, the latest millisecond a
// generator has issued IDs in, so a restarted process does not reuse
// timestamps after the wall clock was set back.
//
// Layout (byte-wise):
//   - hw/{worker_u8}{datacenter_u8} -> {unix_ms_be8}
//
// The node identity itself is not stored; the host supplies it.
package highwater
