// Package observability provides the service's observability
// infrastructure. Structured logging lives here; Prometheus metrics are
// registered next to the code they measure (the HTTP layer and the
// trigger services).
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//
// Example usage:
//
//	import "wiki-triggers/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//	}
package observability
