// Package logger provides structured logging using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Output defaults to
// stderr; stdout is left to the program's data.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("extract")
//	log.Info("category resolved", logger.Fields("category", c, "count", n))
package logger
