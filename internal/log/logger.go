package log

import (
	"context"
	"io"
	stdlog "log"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// FromContext returns the logger stored in ctx, or one that discards
// everything.
func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}

func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// NewStdLogger writes to w through the standard log package. Messages above
// verbosity are dropped. The verbosity is shared by every stdr logger of the
// process.
func NewStdLogger(w io.Writer, verbosity int) logr.Logger {
	stdr.SetVerbosity(verbosity)
	return stdr.New(stdlog.New(w, "gqlir: ", stdlog.LstdFlags))
}
