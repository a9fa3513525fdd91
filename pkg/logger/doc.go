// Package logger provides a thin wrapper around Go's slog package adding
// functional options for configuration and helper attribute constructors.
//
// The package standardises structured logging by exposing a single factory,
// New, that creates a *slog.Logger configured by a set of Option functions.
// These options allow you to:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply static slog.Attr values applied to every record
//   - Attach the service name for log aggregation
//
// # Usage
//
//	import "github.com/dmitrymomot/storekit/pkg/logger"
//
//	func main() {
//	    log := logger.New(
//	        logger.WithService("storefront"),
//	        logger.WithTextFormatter(),
//	        logger.WithLevel(slog.LevelDebug),
//	    )
//	    logger.SetAsDefault(log)
//
//	    log.Info("catalog refreshed",
//	        logger.Handle("classic-tee"),
//	        logger.Duration(time.Since(start)),
//	    )
//	}
//
// Helper constructors such as Group, Error, Handle and EventID live in
// attr.go and return commonly-used slog.Attr instances to keep attribute
// naming consistent across the codebase.
//
// # Error Handling
//
// Helper functions Error and Errors produce attributes only when the
// supplied error value is non-nil allowing calls like:
//
//	log.Info("operation succeeded", logger.Error(err))
//
// without an additional nil check.
package logger
