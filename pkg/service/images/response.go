package images

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/imganalysis/imganalysis/internal/telemetry"
)

// ErrMissingFilename is returned when a request has no filename query
// parameter.
var ErrMissingFilename = errors.New("missing filename query parameter")

const (
	allowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"
	allowMethods = "OPTIONS,GET"
)

type errorResponse struct {
	Error string `json:"error"`
}

func setCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Credentials", "true")
}

func filename(r *http.Request) (string, error) {
	name := r.URL.Query().Get("filename")
	if name == "" {
		return "", ErrMissingFilename
	}
	return name, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	setCORSHeaders(w.Header())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err = w.Write(body)
	if err != nil {
		log.Warnf("writing response: %s", err)
	}
	return nil
}

// writeError renders every failure the same way: the error message in a JSON
// body.
func writeError(w http.ResponseWriter, err error, statusCode int) {
	log.Errorw("request failed", "status", statusCode, "error", err)
	body, _ := json.Marshal(errorResponse{Error: err.Error()})
	setCORSHeaders(w.Header())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}

// NewHandler turns an error returning handler into a http.Handler that answers
// CORS preflight requests and reports and renders errors.
func NewHandler(handler telemetry.ErrorReturningHTTPHandler) http.Handler {
	reporting := telemetry.NewErrorReportingHandler(handler, writeError)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			setCORSHeaders(w.Header())
			w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
			w.Header().Set("Access-Control-Allow-Methods", allowMethods)
			w.WriteHeader(http.StatusOK)
			return
		}
		reporting.ServeHTTP(w, r)
	})
}
