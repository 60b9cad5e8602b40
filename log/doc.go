// Package log provides the small, leveled, printf-style logging interface
// used throughout workflowpaths.
//
// # Log Levels
//
// Five levels, in order of increasing severity:
//
//   - LogLevelDebug: search internals, such as branches dropped by the path ceiling
//   - LogLevelInfo: pipeline summaries
//   - LogLevelWarn: suspicious input, such as conditional edges without declared targets
//   - LogLevelError: failures
//   - LogLevelNone: disables all output
//
// # Implementations
//
//   - DefaultLogger writes through the standard library log package
//   - GologLogger writes through github.com/kataras/golog and is what the
//     command line tool installs
//   - NoOpLogger discards everything
//
// # Example Usage
//
//	logger := log.NewCLILogger(os.Stderr, log.LogLevelDebug)
//	log.SetDefaultLogger(logger)
//
//	log.Info("extracted %d workflows", len(result.Groups))
//
// Components that accept a logger option fall back to the package-level
// logger returned by GetDefaultLogger.
package log
