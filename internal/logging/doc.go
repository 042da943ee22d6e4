// Package logging provides structured logging for debugtap.
//
// This package wraps Go's log/slog to provide JSON-formatted logs for
// post-hoc analysis of capture sessions. The capture engine runs silently by
// default; hosts build a Logger here and hand its slog handle to the engine
// to get lifecycle and dispatch diagnostics.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("capture started", "mutex", mutexName)
//
// When the directory is empty, logs go to stderr as text instead of a file.
//
// # Context Propagation
//
// Child loggers carry persistent attributes:
//
//	viewerLog := logger.WithComponent("viewer")
//	viewerLog.Debug("backlog trimmed", "dropped", n)
//
// # Testing
//
// Use [NopLogger] to discard all output in tests.
package logging
