package telemetry

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	logging "github.com/ipfs/go-log/v2"

	"github.com/imganalysis/imganalysis/pkg/build"
)

var log = logging.Logger("telemetry")

// HTTPError is an error that also has an associated HTTP status code
type HTTPError struct {
	err        error
	statusCode int
}

// Error implements the error interface
func (he HTTPError) Error() string {
	return he.err.Error()
}

// Unwrap returns the underlying error
func (he HTTPError) Unwrap() error {
	return he.err
}

// StatusCode returns the HTTP status code associated with the error
func (he HTTPError) StatusCode() int {
	return he.statusCode
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(err error, statusCode int) HTTPError {
	return HTTPError{err: err, statusCode: statusCode}
}

// ErrorReturningHTTPHandler is a HTTP handler function that returns an error
type ErrorReturningHTTPHandler func(http.ResponseWriter, *http.Request) error

// ErrorRenderer writes an error response with the given status code
type ErrorRenderer func(w http.ResponseWriter, err error, statusCode int)

// SetupErrorReporting configures the Sentry SDK for error reporting. Reporting
// stays disabled when dsn is empty.
func SetupErrorReporting(dsn string, environment string) {
	if dsn == "" {
		log.Debug("sentry DSN not configured, error reporting disabled")
		return
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     build.Version,
		Transport:   sentry.NewHTTPSyncTransport(),
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
}

// recoverPanics runs the handler, converting a panic into an error.
func recoverPanics(h ErrorReturningHTTPHandler, w http.ResponseWriter, r *http.Request) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if perr, ok := p.(error); ok {
				err = fmt.Errorf("handler panic: %w", perr)
			} else {
				err = fmt.Errorf("handler panic: %v", p)
			}
		}
	}()
	return h(w, r)
}

// NewErrorReportingHandler wraps an ErrorReturningHTTPHandler with error
// reporting. Errors are rendered with a 500 status code unless they are an
// HTTPError carrying a different one. A panicking handler is rendered as a 500.
func NewErrorReportingHandler(errorReturningHandler ErrorReturningHTTPHandler, render ErrorRenderer) http.Handler {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := recoverPanics(errorReturningHandler, w, r); err != nil {
			ReportError(err)

			statusCode := http.StatusInternalServerError
			var he HTTPError
			if errors.As(err, &he) {
				statusCode = he.StatusCode()
			}
			render(w, err, statusCode)
		}
	})

	sentryHandler := sentryhttp.New(sentryhttp.Options{})
	return sentryHandler.Handle(handler)
}

// ReportError reports an error to Sentry
func ReportError(err error) {
	sentry.CaptureException(err)
}
