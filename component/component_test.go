package component

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/kbukum/hpcparser/logger"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "telemetry", Details: "otlp http localhost:4318"}
}

func quietRegistry() *Registry {
	r := NewRegistry()
	r.SetLogger(logger.NewNop())
	return r
}

func TestRegisterDuplicate(t *testing.T) {
	r := quietRegistry()
	if err := r.Register(&mockComponent{name: "telemetry"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "telemetry"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := quietRegistry()
	r.Register(&mockComponent{name: "telemetry"})

	got := r.Get("telemetry")
	if got == nil || got.Name() != "telemetry" {
		t.Fatalf("expected registered component, got %v", got)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered component")
	}
	if len(r.All()) != 1 {
		t.Errorf("expected one component, got %d", len(r.All()))
	}
}

func TestStartAllOrder(t *testing.T) {
	r := quietRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "telemetry", startOrder: &order})
	r.Register(&mockComponent{name: "spool", startOrder: &order})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if len(order) != 2 || order[0] != "telemetry" || order[1] != "spool" {
		t.Errorf("expected start order [telemetry, spool], got %v", order)
	}
}

func TestStartAllErrorStopsStartedOnly(t *testing.T) {
	r := quietRegistry()
	stops := []string{}
	r.Register(&mockComponent{name: "telemetry", stopOrder: &stops})
	r.Register(&mockComponent{name: "spool", startErr: fmt.Errorf("disk full"), stopOrder: &stops})
	r.Register(&mockComponent{name: "late", stopOrder: &stops})

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "spool") {
		t.Fatalf("expected start error naming spool, got %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(stops) != 1 || stops[0] != "telemetry" {
		t.Errorf("expected only telemetry to be stopped, got %v", stops)
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := quietRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "a", stopOrder: &order})
	r.Register(&mockComponent{name: "b", stopOrder: &order})
	r.Register(&mockComponent{name: "c", stopOrder: &order})

	r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 3 || order[0] != "c" || order[1] != "b" || order[2] != "a" {
		t.Errorf("expected reverse stop order [c, b, a], got %v", order)
	}

	// A second StopAll is a no-op.
	if err := r.StopAll(context.Background()); err != nil || len(order) != 3 {
		t.Errorf("expected idempotent StopAll, got err=%v order=%v", err, order)
	}
}

func TestStopAllContinuesAfterError(t *testing.T) {
	r := quietRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "a", stopOrder: &order})
	r.Register(&mockComponent{name: "b", stopErr: fmt.Errorf("flush failed"), stopOrder: &order})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "flush failed") {
		t.Fatalf("expected joined stop error, got %v", err)
	}
	if len(order) != 2 {
		t.Errorf("expected both components stopped, got %v", order)
	}
}

func TestHealthAll(t *testing.T) {
	r := quietRegistry()
	r.Register(&mockComponent{name: "telemetry", health: Health{Name: "telemetry", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "spool", health: Health{Name: "spool", Status: StatusDegraded, Message: "slow disk"}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy || results[1].Status != StatusDegraded {
		t.Errorf("unexpected health results %+v", results)
	}
}

func TestStartAllLogsDescription(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry()
	r.SetLogger(logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "hpc", &buf))
	r.Register(&describedComponent{mockComponent{name: "telemetry"}})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if !strings.Contains(buf.String(), "otlp http localhost:4318") {
		t.Errorf("expected description details in log, got %q", buf.String())
	}
}
