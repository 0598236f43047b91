// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package standardises structured logging across the worker daemon by
// exposing a single factory, New, that creates a *slog.Logger configured by a
// set of Option functions. These options allow you to:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Register ContextExtractor callbacks that inject attributes pulled from
//     a context value (for example a job id) every time Handle is invoked.
//
// # Architecture
//
// New builds a decorated slog.Handler: first the concrete handler
// implementation (slog.NewTextHandler or slog.NewJSONHandler) based on the
// configured Format, then LogHandlerDecorator on top, which runs any
// registered ContextExtractor callbacks before delegating to the underlying
// handler.
//
// Helper constructors such as Error, JobID, Queue and Attempt live in attr.go
// and keep attribute naming consistent across the codebase.
//
// # Usage
//
//	import "github.com/dmitrymomot/postflow/pkg/logger"
//
//	func main() {
//	    log := logger.New(
//	        logger.WithProduction("postflow-worker"),
//	        logger.WithContextValue("job_id", ctxKeyJobID),
//	    )
//	    logger.SetAsDefault(log)
//
//	    log.InfoContext(ctx, "post submitted",
//	        logger.Queue("post-submission"),
//	        logger.Duration(time.Since(start)),
//	    )
//	}
//
// # Error Handling
//
// Error and Errors produce attributes only when the supplied error value is
// non-nil, allowing calls like:
//
//	log.Info("operation finished", logger.Error(err))
//
// without an additional nil check.
package logger
