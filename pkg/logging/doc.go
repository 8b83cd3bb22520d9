// Package logging provides structured logging configuration for tracedapp.
//
// This package wraps log/slog to provide consistent logging across all
// components. It supports configurable log levels and output formats, both
// settable through the environment (LOG_LEVEL, LOG_FORMAT).
//
// # Usage
//
// Create a logger with desired configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("server started", "port", 8080)
//	logger.Error("listen failed", "error", err)
//
// # Integration
//
// Components should accept a *slog.Logger in their constructor or via an
// option. If no logger is provided, use logging.Nop() for a no-op logger.
package logging
