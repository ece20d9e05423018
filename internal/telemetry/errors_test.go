package telemetry

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewErrorReportingHandler(t *testing.T) {
	render := func(w http.ResponseWriter, err error, statusCode int) {
		w.WriteHeader(statusCode)
		fmt.Fprint(w, err.Error())
	}

	testCases := []struct {
		name         string
		handlerErr   error
		panicWith    any
		expectStatus int
		expectBody   string
	}{
		{
			name:         "success",
			expectStatus: http.StatusOK,
			expectBody:   "ok",
		},
		{
			name:         "plain error",
			handlerErr:   errors.New("boom"),
			expectStatus: http.StatusInternalServerError,
			expectBody:   "boom",
		},
		{
			name:         "http error",
			handlerErr:   fmt.Errorf("wrapped: %w", NewHTTPError(errors.New("teapot"), http.StatusTeapot)),
			expectStatus: http.StatusTeapot,
			expectBody:   "wrapped: teapot",
		},
		{
			name:         "panic",
			panicWith:    "nil map",
			expectStatus: http.StatusInternalServerError,
			expectBody:   "handler panic: nil map",
		},
		{
			name:         "panic with error",
			panicWith:    errors.New("index out of range"),
			expectStatus: http.StatusInternalServerError,
			expectBody:   "handler panic: index out of range",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewErrorReportingHandler(func(w http.ResponseWriter, r *http.Request) error {
				if tc.panicWith != nil {
					panic(tc.panicWith)
				}
				if tc.handlerErr != nil {
					return tc.handlerErr
				}
				fmt.Fprint(w, "ok")
				return nil
			}, render)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, tc.expectStatus, rec.Code)
			require.Equal(t, tc.expectBody, rec.Body.String())
		})
	}
}
