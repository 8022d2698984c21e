// Package logging provides a minimal logging interface and adapters for Maestro.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error, Fatal)
// that the graph, agents and scheduler use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.New(&logging.Config{Level: logging.LogLevelInfo, Format: "json"})
//	runCtx := core.NewRunContext(ctx, threadID, conv, logger)
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
