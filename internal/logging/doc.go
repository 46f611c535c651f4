// Package logging provides structured logging for SkyCast built on zap.
//
// Logging is silent by default so the interactive TUI and one-shot command
// output stay clean. Set SKYCAST_LOG_LEVEL (debug, info, warn, error) to
// enable diagnostic output on stderr.
package logging
