// Package component defines lifecycle-managed pieces of an hpcparser run.
//
// A Component is started before the task runs and stopped after it, in
// reverse registration order. The telemetry exporters are the main example:
// they must be live before the first span and flushed after the last one.
//
// # Interfaces
//
//   - Component: lifecycle (Name/Start/Stop/Health)
//   - Describable: optional self-description logged at startup
package component
