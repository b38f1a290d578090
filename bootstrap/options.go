package bootstrap

import (
	"os"
	"syscall"
	"time"

	"github.com/kbukum/kanko/logger"
)

// Option configures NewApp. Options do not depend on the config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	signals         []os.Signal
}

func resolveOptions(opts []Option) appOptions {
	o := appOptions{
		gracefulTimeout: 15 * time.Second,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger uses l instead of a logger built from the config.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout bounds shutdown. The default is 15s.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = d }
}

// WithSignals replaces the signals that cancel a running task.
// The default is SIGINT and SIGTERM.
func WithSignals(sigs ...os.Signal) Option {
	return func(o *appOptions) { o.signals = sigs }
}
