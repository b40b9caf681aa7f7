// Package log provides the structured logging facade used across flake.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. It is backed by the standard library
// slog with either a text or a JSON handler.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormat(log.FormatText),
//	)
//	l = l.With(log.Component("idgen"), log.Int64("worker", 5))
//	l.Info("generator ready", log.Int64("datacenter", 3))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config (level, format
// and output). RedirectStdLog routes libraries that write through the
// standard library log package (Pebble does) into a Logger.
package log
