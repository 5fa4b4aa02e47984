// Package log provides structured protocol logging for the visor links.
//
// This package defines the Logger interface and Event types for capturing
// link-level events on both serial channels (host frames, companion lines,
// bridge state changes, framing errors). It is separate from operational
// logging (slog) - protocol capture provides a complete machine-readable
// event trace for debugging a flaky serial run after the fact.
//
// # Basic Usage
//
// Components accept a Logger; pass nil or NoopLogger to disable capture:
//
//	// Development: protocol events on the console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// Production: compact binary trace file
//	logger, _ := log.NewFileLogger("/var/lib/visor/link.vlog")
//
//	// Both at once
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Trace files are a concatenation of CBOR-encoded events with integer
// keys, extension .vlog. The visor-log command decodes them.
package log
