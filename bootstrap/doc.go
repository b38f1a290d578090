// Package bootstrap runs a command through a uniform lifecycle.
//
// NewApp applies config defaults, validates, and initializes the logger.
// RunTask then starts the registered components, runs the OnStart and
// OnReady hooks, executes the task with SIGINT/SIGTERM cancellation, and
// shuts everything down in reverse order, OnStop hooks first.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(httpclient.NewComponent(cfg.Extract.HTTPClientConfig()))
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    _, err := extractor.Run(ctx, sink)
//	    return err
//	})
//
// Startup summaries and health reports go to the logger, never to stdout.
package bootstrap
