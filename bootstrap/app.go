package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/kbukum/kanko/component"
	"github.com/kbukum/kanko/logger"
	"github.com/kbukum/kanko/observability"
)

// App owns the lifecycle of one finite run. C is the typed service config.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    return nil // build the task from a.Cfg and started components
//	})
//	err = app.RunTask(ctx, task)
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	signals         []os.Signal
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp applies defaults to cfg, validates it and sets up logging. Without
// WithLogger the global logger is initialized from the config.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	log := o.logger
	if log == nil {
		logger.Init(base.Logging)
		log = logger.GetGlobalLogger()
	}
	return &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          log,
		Summary:         NewSummary(base.Name, base.Version),
		gracefulTimeout: o.gracefulTimeout,
		signals:         o.signals,
	}, nil
}

// RegisterComponent adds c to the components started before the task.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ComponentLogger returns the application logger tagged with name and binds
// it in the logger registry, so packages resolving logger.Get(name) log
// through the same sink.
func (a *App[C]) ComponentLogger(name string) *logger.Logger {
	l := a.Logger.WithComponent(name)
	logger.Register(name, l)
	return l
}

// OnConfigure registers fn to run once components are started, to build
// the task's dependencies.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// Health aggregates the health of all registered components.
func (a *App[C]) Health(ctx context.Context) *observability.ServiceHealth {
	return observability.AggregateHealth(a.Name, a.Version, a.Components.HealthAll(ctx))
}

// ReadyCheck fails when any component is not up.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	failing := a.Health(ctx).Failing()
	if len(failing) == 0 {
		return nil
	}
	var b strings.Builder
	for i, h := range failing {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%s", h.Name, h.Status)
		if h.Message != "" {
			fmt.Fprintf(&b, "(%s)", h.Message)
		}
	}
	return fmt.Errorf("unhealthy components: [%s]", b.String())
}

// RunTask starts components, runs the hooks and configure callbacks, runs
// task and shuts down. Shutdown runs even when startup or the task fails,
// and a task error wins over a shutdown error. One of the configured
// signals cancels the task's context.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		if stopErr := a.stop(); stopErr != nil {
			a.Logger.Warn("shutdown after failed startup reported errors", logger.MergeWithError(nil, stopErr))
		}
		return err
	}

	taskCtx, cancel := a.cancelOnSignal(ctx)
	defer cancel()

	start := time.Now()
	taskErr := task(taskCtx)
	fields := logger.DurationFields("task", time.Since(start))
	if taskErr != nil {
		a.Logger.Error("task failed", logger.MergeWithError(fields, taskErr))
	} else {
		a.Logger.Info("task finished", fields)
	}

	stopErr := a.stop()
	if taskErr != nil {
		return taskErr
	}
	return stopErr
}

// cancelOnSignal derives a context canceled by the first configured signal.
func (a *App[C]) cancelOnSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, a.signals...)
	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Warn("received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.MergeWithError(nil, err))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.Summary.Log(ctx, a.Components, a.Logger)
	return nil
}

// stop runs the OnStop hooks, then stops components, all within the
// graceful timeout. The first error is returned.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	hookErr := runHooks(ctx, a.onStop)
	if hookErr != nil {
		a.Logger.Error("onStop hook failed", logger.MergeWithError(nil, hookErr))
	}
	stopErr := a.Components.StopAll(ctx)
	if stopErr != nil {
		a.Logger.Error("shutdown completed with errors", logger.MergeWithError(nil, stopErr))
	}
	a.Logger.Debug("application stopped")

	if hookErr != nil {
		return hookErr
	}
	return stopErr
}
