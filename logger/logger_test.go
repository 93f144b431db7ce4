package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNew(t *testing.T) {
	cfg := &Config{
		Level:  "debug",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "my-service")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "my-service" {
		t.Errorf("expected service 'my-service', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "invalid",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "hpc", &buf)
	l.WithComponent(ComponentSink).Info("batch written", Fields(FieldRecords, 3, FieldPath, "out.bin"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "batch written" {
		t.Errorf("expected message 'batch written', got %v", entry["message"])
	}
	if entry[FieldComponent] != ComponentSink {
		t.Errorf("expected component %q, got %v", ComponentSink, entry[FieldComponent])
	}
	if entry[FieldRecords] != float64(3) {
		t.Errorf("expected records=3, got %v", entry[FieldRecords])
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "warn", Format: "json"}, "hpc", &buf)
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn message should be written")
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("nothing")
	l.WithComponent("x").Error("nothing")
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test")
	cl := l.WithComponent("dispatch")
	if cl == nil {
		t.Fatal("expected non-nil logger")
	}
	if cl.service != "test" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
}

func TestWithContext_RunID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "hpc", &buf)
	ctx := ContextWithRunID(context.Background(), "run-123")
	ctx = ContextWithPhase(ctx, "transform")
	l.WithContext(ctx).Info("working")

	out := buf.String()
	if !strings.Contains(out, `"run_id":"run-123"`) {
		t.Errorf("expected run_id in output, got %q", out)
	}
	if !strings.Contains(out, `"phase":"transform"`) {
		t.Errorf("expected phase in output, got %q", out)
	}
	if RunIDFromContext(ctx) != "run-123" {
		t.Errorf("expected RunIDFromContext to return run-123, got %q", RunIDFromContext(ctx))
	}
	if RunIDFromContext(context.Background()) != "" {
		t.Error("expected empty run ID for bare context")
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "hpc", &buf)
	l.WithFields(Fields(FieldRecords, 3)).Info("transform finished")

	if out := buf.String(); !strings.Contains(out, `"records":3`) {
		t.Errorf("expected records field, got %q", out)
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "hpc", &buf)
	l.WithError(fmt.Errorf("bad line")).Warn("record failed")

	if out := buf.String(); !strings.Contains(out, `"error":"bad line"`) {
		t.Errorf("expected error field, got %q", out)
	}
}

func TestInit(t *testing.T) {
	cfg := Config{
		Level:  "info",
		Format: "console",
		Output: "discard",
	}
	Init(&cfg)
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	l := GetGlobalLogger()
	if l == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	got := GetGlobalLogger()
	if got != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	Init(&Config{Level: "debug", Format: "console", Output: "discard"})
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"valid console", Config{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"valid discard", Config{Level: "warn", Format: "pretty", Output: "discard"}, false},
		{"invalid level", Config{Level: "bad", Format: "json", Output: "stdout"}, true},
		{"invalid format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "syslog"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{
		Level:   "info",
		Format:  "console",
		NoColor: true,
	}
	l := NewWithWriter(cfg, "hpcparser", &buf)
	l.Info("Read 3 lines")
	out := buf.String()
	if !strings.Contains(out, "[HPC][INF]") {
		t.Errorf("expected service and level tag, got %q", out)
	}
	if !strings.Contains(out, "Read 3 lines") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := NewDefault("custom-component")
	Register("my-component", l)

	got := Get("my-component")
	if got != l {
		t.Error("expected Get to return the registered logger")
	}
}

func TestGetUnregistered(t *testing.T) {
	got := Get("unregistered-component")
	if got == nil {
		t.Fatal("expected non-nil logger for unregistered component")
	}
}

func TestRegisterDefaults(t *testing.T) {
	Init(&Config{Level: "info", Format: "json", Output: "discard"})
	RegisterDefaults()

	for _, name := range []string{ComponentSource, ComponentDispatch, ComponentSink, ComponentEngine} {
		registry.mu.RLock()
		_, ok := registry.loggers[name]
		registry.mu.RUnlock()
		if !ok {
			t.Errorf("expected %q to be registered", name)
		}
	}

	Reset()
	registry.mu.RLock()
	n := len(registry.loggers)
	registry.mu.RUnlock()
	if n != 0 {
		t.Errorf("expected empty registry after Reset, got %d", n)
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{
			"key-value pairs",
			[]interface{}{"op", "save", "id", 42},
			map[string]interface{}{"op": "save", "id": 42},
		},
		{
			"odd number of args",
			[]interface{}{"op", "save", "trailing"},
			map[string]interface{}{"op": "save"},
		},
		{
			"empty",
			[]interface{}{},
			map[string]interface{}{},
		},
		{
			"non-string key skipped",
			[]interface{}{123, "value", "key", "val"},
			map[string]interface{}{"key": "val"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Errorf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorFields(t *testing.T) {
	err := fmt.Errorf("something broke")
	fields := ErrorFields("write", err)

	if fields[FieldOperation] != "write" {
		t.Errorf("expected operation 'write', got %v", fields[FieldOperation])
	}
	if fields[FieldError] != "something broke" {
		t.Errorf("expected error 'something broke', got %v", fields[FieldError])
	}
}

func TestDurationFields(t *testing.T) {
	d := 150 * time.Millisecond
	fields := DurationFields("dispatch", d)

	if fields[FieldOperation] != "dispatch" {
		t.Errorf("expected operation 'dispatch', got %v", fields[FieldOperation])
	}
	if fields[FieldDuration] != int64(150) {
		t.Errorf("expected duration 150, got %v", fields[FieldDuration])
	}
}

func TestMergeWithError(t *testing.T) {
	err := fmt.Errorf("test error")

	fields := map[string]interface{}{"op": "save"}
	result := MergeWithError(fields, err)
	if result[FieldError] != "test error" {
		t.Errorf("expected error field, got %v", result[FieldError])
	}
	if result["op"] != "save" {
		t.Error("expected existing fields to be preserved")
	}

	result2 := MergeWithError(nil, err)
	if result2[FieldError] != "test error" {
		t.Errorf("expected error field from nil map, got %v", result2[FieldError])
	}
}

func TestMergeWithDuration(t *testing.T) {
	d := 200 * time.Millisecond

	fields := map[string]interface{}{"op": "read"}
	result := MergeWithDuration(fields, d)
	if result[FieldDuration] != int64(200) {
		t.Errorf("expected duration 200, got %v", result[FieldDuration])
	}

	result2 := MergeWithDuration(nil, d)
	if result2[FieldDuration] != int64(200) {
		t.Errorf("expected duration from nil map, got %v", result2[FieldDuration])
	}
}
