package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/kbukum/hpcparser/component"
	"github.com/kbukum/hpcparser/config"
	"github.com/kbukum/hpcparser/logger"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	return m.health
}

func healthy(name string) *mockComponent {
	return &mockComponent{name: name, health: component.Health{Name: name, Status: component.StatusHealthy}}
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(newTestConfig("hpcparser", "1.0.0"), WithLogger(logger.NewNop()), WithSignals())
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	cfg := newTestConfig("hpcparser", "1.0.0")
	cfg.Logging.Output = "discard"
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "hpcparser" || app.Version != "1.0.0" {
		t.Errorf("unexpected identity %q %q", app.Name, app.Version)
	}
	if app.Cfg != cfg {
		t.Error("expected typed config to be kept")
	}
	if app.Logger == nil || app.Components == nil {
		t.Fatal("expected logger and registry to be initialized")
	}
	if !cfg.Debug {
		t.Error("expected defaults to be applied")
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("expected default 15s, got %v", app.gracefulTimeout)
	}
	if len(app.signals) != 2 || app.signals[0] != syscall.SIGINT {
		t.Errorf("expected SIGINT/SIGTERM by default, got %v", app.signals)
	}
}

func TestNewAppValidation(t *testing.T) {
	_, err := NewApp(newTestConfig("", "1.0.0"), WithLogger(logger.NewNop()))
	if err == nil {
		t.Fatal("expected validation error for empty name")
	}
	if !strings.Contains(err.Error(), "config validation") {
		t.Errorf("unexpected error %q", err.Error())
	}
}

func TestNewAppOptions(t *testing.T) {
	l := logger.NewNop()
	app, err := NewApp(newTestConfig("hpcparser", "1"), WithLogger(l), WithGracefulTimeout(time.Second), WithSignals())
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Logger != l {
		t.Error("expected custom logger")
	}
	if app.gracefulTimeout != time.Second {
		t.Errorf("expected 1s timeout, got %v", app.gracefulTimeout)
	}
	if len(app.signals) != 0 {
		t.Errorf("expected signal handling disabled, got %v", app.signals)
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app := newTestApp(t)
	if err := app.RegisterComponent(healthy("telemetry")); err != nil {
		t.Fatalf("RegisterComponent failed: %v", err)
	}
	if err := app.RegisterComponent(healthy("telemetry")); err == nil {
		t.Error("expected duplicate registration error")
	}
}

func TestRunTaskSuccess(t *testing.T) {
	app := newTestApp(t)
	executed := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		executed = true
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if !executed {
		t.Error("expected task to be executed")
	}
}

func TestRunTaskError(t *testing.T) {
	app := newTestApp(t)
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("task error")
	})
	if err == nil || err.Error() != "task error" {
		t.Errorf("expected 'task error', got %v", err)
	}
}

func TestRunTaskCancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := app.RunTask(ctx, func(taskCtx context.Context) error {
		cancel()
		<-taskCtx.Done()
		return taskCtx.Err()
	})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunTaskLifecycleOrder(t *testing.T) {
	app := newTestApp(t)

	order := []string{}
	app.OnStart(func(ctx context.Context) error {
		order = append(order, "start")
		return nil
	})
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		if a.Cfg.Name != "hpcparser" {
			t.Errorf("expected typed config in configure, got %q", a.Cfg.Name)
		}
		order = append(order, "configure")
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		order = append(order, "stop")
		return nil
	})

	app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		return nil
	})

	expected := []string{"start", "configure", "task", "stop"}
	if strings.Join(order, ",") != strings.Join(expected, ",") {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestRunTaskStopsComponents(t *testing.T) {
	app := newTestApp(t)
	comp := healthy("telemetry")
	app.RegisterComponent(comp)

	app.RunTask(context.Background(), func(ctx context.Context) error {
		if !comp.started {
			t.Error("expected component to be started before the task")
		}
		return fmt.Errorf("task failed")
	})

	if !comp.stopped {
		t.Error("expected component to be stopped even after a failed task")
	}
}

func TestRunTaskStartHookError(t *testing.T) {
	app := newTestApp(t)
	comp := healthy("telemetry")
	app.RegisterComponent(comp)
	app.OnStart(func(ctx context.Context) error { return fmt.Errorf("boom") })

	ran := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "onStart hook failed") {
		t.Errorf("expected onStart error, got %v", err)
	}
	if ran {
		t.Error("task must not run after a failed start hook")
	}
	if !comp.stopped {
		t.Error("expected started component to be stopped after failed startup")
	}
}

func TestRunTaskConfigureError(t *testing.T) {
	app := newTestApp(t)
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		return fmt.Errorf("no writer")
	})
	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "configuration failed") {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestRunTaskComponentStartError(t *testing.T) {
	app := newTestApp(t)
	app.RegisterComponent(&mockComponent{name: "telemetry", startErr: fmt.Errorf("exporter unreachable")})
	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "exporter unreachable") {
		t.Errorf("expected component start error, got %v", err)
	}
}

func TestRunTaskStopErrors(t *testing.T) {
	t.Run("stop error surfaces when task succeeds", func(t *testing.T) {
		app := newTestApp(t)
		app.RegisterComponent(&mockComponent{name: "telemetry", stopErr: fmt.Errorf("flush failed")})
		err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
		if err == nil || !strings.Contains(err.Error(), "flush failed") {
			t.Errorf("expected stop error, got %v", err)
		}
	})

	t.Run("task error wins over stop error", func(t *testing.T) {
		app := newTestApp(t)
		app.OnStop(func(ctx context.Context) error { return fmt.Errorf("hook failed") })
		err := app.RunTask(context.Background(), func(ctx context.Context) error { return fmt.Errorf("task failed") })
		if err == nil || err.Error() != "task failed" {
			t.Errorf("expected task error, got %v", err)
		}
	})
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t)
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("expected no error for empty registry, got %v", err)
	}

	app.RegisterComponent(healthy("telemetry"))
	app.RegisterComponent(&mockComponent{
		name:   "spool",
		health: component.Health{Name: "spool", Status: component.StatusDegraded, Message: "slow"},
	})
	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "spool=degraded(slow)") {
		t.Errorf("expected degraded spool in error, got %v", err)
	}
}

func TestRunHooksStopsAtFirstError(t *testing.T) {
	calls := 0
	err := runHooks(context.Background(), []Hook{
		func(ctx context.Context) error { calls++; return nil },
		func(ctx context.Context) error { calls++; return fmt.Errorf("second") },
		func(ctx context.Context) error { calls++; return nil },
	})
	if err == nil || !strings.Contains(err.Error(), "hook 1 failed") {
		t.Errorf("expected hook 1 error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}
