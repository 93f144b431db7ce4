package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/hpcparser/component"
	"github.com/kbukum/hpcparser/logger"
)

// App runs one task with uniform lifecycle management.
// The type parameter C is the config type, which must satisfy Config.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		gracefulTimeout: 15 * time.Second,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.signals != nil {
		app.signals = o.signals
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	app.Components.SetLogger(app.Logger.WithComponent(logger.ComponentLifecycle))

	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback to run after components and start hooks.
// Use it to build objects that depend on started components.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// RunTask executes a finite task with the full lifecycle:
// start components → OnStart hooks → OnConfigure callbacks → task →
// OnStop hooks → stop components.
//
// The task context is canceled on SIGINT/SIGTERM or when ctx is done.
// Shutdown always runs once startup has begun; the task error wins over a
// shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		if stopErr := a.stop(); stopErr != nil {
			a.Logger.Warn("Shutdown after failed startup reported errors", logger.Fields(logger.FieldError, stopErr.Error()))
		}
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if len(a.signals) > 0 {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, a.signals...)
		defer signal.Stop(sigCh)

		go func() {
			select {
			case sig := <-sigCh:
				a.Logger.Warn("Received signal, canceling task", logger.Fields("signal", sig.String()))
				cancel()
			case <-taskCtx.Done():
			}
		}()
	}

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			a.Logger.Warn("Shutdown reported errors", logger.Fields(logger.FieldError, stopErr.Error()))
			return taskErr
		}
		return stopErr
	}

	return taskErr
}

// startup starts components and runs start hooks and configure callbacks.
func (a *App[C]) startup(ctx context.Context) error {
	a.Logger.Debug("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
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
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	return nil
}

// stop runs stop hooks and stops all components within the graceful timeout.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}

	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Debug("Application shutdown complete")
	return shutdownErr
}
