// Package observability wires OpenTelemetry tracing and metrics into an
// hpcparser run.
//
// Telemetry is off by default: the global providers stay no-op and every
// instrument is still safe to call. When enabled, the Component installs
// OTLP/HTTP trace and metric exporters on Start and flushes them on Stop.
//
//	tel := observability.NewComponent(cfg.Telemetry, observability.ServiceInfo{Name: "hpcparser"})
//	app.RegisterComponent(tel)
//
// Each engine phase is tracked with a Phase, which owns one span, one
// duration sample and, on failure, one error count:
//
//	ctx, phase := observability.StartPhase(ctx, metrics, observability.SpanSourceRead)
//	lines, err := src.ReadAll(ctx, path)
//	phase.End(err)
package observability
