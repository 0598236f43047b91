// Package httpserver serves the worker's operational HTTP surface: health
// probes and queue administration endpoints.
//
// Server wraps net/http with graceful shutdown and structured logging. It
// deliberately does no signal handling of its own: the process supervisor
// (errgroup plus signal.NotifyContext in cmd/worker) cancels the context
// passed to Run, and the server drains in-flight requests within the
// configured shutdown timeout.
//
// # Usage
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
//	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, log, dbHealthcheck))
//
//	eg.Go(func() error { return srv.Run(ctx, r) })
//
// # Error Handling
//
// Run wraps listen errors with ErrStart and Shutdown wraps shutdown errors
// with ErrShutdown; inspect them with errors.Is. Calling Run twice on the
// same Server returns ErrAlreadyRunning.
package httpserver
