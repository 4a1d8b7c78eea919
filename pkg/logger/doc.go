// Package logger provides the structured logging sink used throughout ghbot.
//
// It wraps zerolog behind a small Logger interface so the engine never
// prints directly: every component receives a Logger in its constructor.
// The CLI builds one from config.LoggingConfig; tests use TestLogger to
// capture lines and assert on them.
//
//	log, err := logger.New(&cfg.Logging)
//	log.WithField("target", "octocat").Info("followed")
//
// Helpers such as LogRequest and LogAction keep field names consistent
// across the HTTP transport and the batch runner.
package logger
