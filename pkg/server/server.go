package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	logging "github.com/ipfs/go-log/v2"

	"github.com/imganalysis/imganalysis/pkg/build"
	"github.com/imganalysis/imganalysis/pkg/service/images"
)

var log = logging.Logger("server")

type config struct {
	images *images.Server
}

type Option func(*config)

// WithImages configures the image handlers the server should expose.
func WithImages(srv *images.Server) Option {
	return func(c *config) {
		c.images = srv
	}
}

// ListenAndServe creates a new image analysis HTTP server, and starts it up.
// The server is shut down when ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, opts ...Option) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: LogMiddleware(log)(NewServer(opts...)),
	}

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Errorf("shutting down server: %s", err)
		}
	}()

	log.Infof("Listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NewServer creates a new image analysis server.
func NewServer(opts ...Option) *http.ServeMux {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", getRootHandler())
	if c.images != nil {
		c.images.Serve(mux)
	} else {
		log.Warn("No image handlers configured!")
	}
	return mux
}

// getRootHandler displays version info when a GET request is sent to "/".
func getRootHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fmt.Sprintf("imganalysis %s\n", build.Version)))
		w.Write([]byte("- GET /upload-url?filename=<name>\n"))
		w.Write([]byte("- GET /analyze?filename=<name>\n"))
		w.Write([]byte("- GET /history\n"))
	}
}
