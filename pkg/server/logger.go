package server

import (
	"fmt"
	"net/http"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/zap"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// LogMiddleware returns a middleware that logs requests using the IPFS go-log logger
func LogMiddleware(logger *logging.ZapEventLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, req)

			path := req.URL.Path
			if path == "" {
				path = "/"
			}

			logMsg := fmt.Sprintf("[%d:%s] %s %s %s", rec.status, http.StatusText(rec.status), req.Method, path, req.URL.RawQuery)
			fields := []interface{}{
				"latency", time.Since(start).String(),
			}
			if logger.Level() == zap.DebugLevel {
				fields = append(fields,
					"remote_addr", req.RemoteAddr,
					"host", req.Host,
					"user_agent", req.UserAgent(),
					"bytes_out", rec.size,
					"content_type", rec.Header().Get("Content-Type"),
				)
			}

			switch {
			case rec.status >= 500:
				logger.Errorw(logMsg, fields...)
			case rec.status >= 400:
				logger.Warnw(logMsg, fields...)
			default:
				logger.Infow(logMsg, fields...)
			}
		})
	}
}
