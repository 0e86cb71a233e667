// Package ports defines the core interfaces for the application.
package ports

// Logger defines the interface for build output.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Info announces a build step headline.
	Info(msg string)
	// Debug reports a detail of the current step.
	Debug(msg string)
	// Warn reports a problem that does not stop the build.
	Warn(msg string)
	// Error reports the error that stopped the build.
	Error(err error)
	// Trace forwards a line of external command output.
	Trace(msg string)
}
