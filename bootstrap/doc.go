// Package bootstrap runs a finite task inside a managed lifecycle.
//
// NewApp validates the typed configuration and initializes logging.
// RunTask then starts registered components, runs the OnStart hooks and
// OnConfigure callbacks, executes the task with SIGINT/SIGTERM bound to its
// context, and finally runs OnStop hooks and stops components in reverse
// order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(telemetry)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    eng = engine.New(...)
//	    return nil
//	})
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    _, err := eng.Run(ctx, in, out)
//	    return err
//	})
package bootstrap
