package pexplore

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger type used throughout this package,
// fixed to stumpy's event encoding, the same backend the teacher package
// wires logiface to for its own services.
type Logger = logiface.Logger[*stumpy.Event]

// defaultLogger backs any Runnable constructed without an explicit
// RunnableConfig.Logger: stumpy's default encoding, written to stderr.
var defaultLogger = stumpy.L.New(stumpy.L.WithStumpy())

// NewLogger builds a Logger with the given logiface/stumpy options, for
// callers that want to customise output (e.g. attach a writer, change the
// minimum level) rather than use the package default.
func NewLogger(options ...logiface.Option[*stumpy.Event]) *Logger {
	return stumpy.L.New(options...)
}
