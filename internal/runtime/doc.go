// Package runtime wires config, storage and the ID generator into a
// single-node flake instance. It exposes Open/Close, a health check and
// the generator.
//
// With high-water persistence enabled, Open loads the stored mark for the
// node identity and waits until the clock is past it (plus one persist
// interval, since the mark is written periodically) before handing out
// IDs. A background loop keeps the mark current; Close writes the final one.
//
// Example:
//
//	cfg := config.Default()
//	cfg.WorkerID, cfg.DataCenterID = 5, 3
//	rt, err := runtime.Open(ctx, runtime.Options{Config: cfg})
//	if err != nil { /* handle */ }
//	defer rt.Close()
//	next := rt.Next()
package runtime
