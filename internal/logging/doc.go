// Package logging provides structured logging for wledctl.
//
// This package wraps zap logger with convenience functions for the logging
// patterns used throughout the tool. By default logging is silent so the
// interactive console stays readable; set WLEDCTL_LOG_LEVEL to enable output.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (request bodies, retry attempts)
//   - Info: Normal operations (scans, command dispatch, results)
//   - Warn: Non-fatal issues (per-device failures, retries)
//   - Error: Fatal issues (startup failures, config errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("command complete",
//	    zap.String("command", "power_on"),
//	    zap.Int("targets", 5),
//	    zap.Int("failed", 1),
//	)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Output Format
//
// Logs are written to stderr in console format so they never interleave with
// the device listing on stdout:
//
//	2025-11-25T10:30:45.123-0800  INFO  command complete
//	  command=power_on
//	  targets=5
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
