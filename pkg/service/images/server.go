package images

import (
	"net/http"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/imganalysis/imganalysis/pkg/detector"
	"github.com/imganalysis/imganalysis/pkg/presigner"
	"github.com/imganalysis/imganalysis/pkg/store/recordstore"
)

var log = logging.Logger("images")

func newOptions(opts []Option) *options {
	o := &options{clock: time.Now, uploadTTL: presigner.UploadURLTTL}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type Server struct {
	presigner presigner.UploadPresigner
	detector  detector.Detector
	records   recordstore.RecordStore
	publicURL string
	opts      []Option
}

func NewServer(presigner presigner.UploadPresigner, detector detector.Detector, records recordstore.RecordStore, publicURL string, opts ...Option) *Server {
	return &Server{presigner, detector, records, publicURL, opts}
}

func handle(mux *http.ServeMux, path string, handler http.Handler) {
	mux.Handle("GET "+path, handler)
	mux.Handle("OPTIONS "+path, handler)
}

// Serve registers the upload URL, analysis and history endpoints on the mux.
// Each path answers GET and the OPTIONS preflight.
func (srv *Server) Serve(mux *http.ServeMux) {
	handle(mux, "/upload-url", NewHandler(NewUploadURLHandler(srv.presigner, srv.opts...)))
	handle(mux, "/analyze", NewHandler(NewAnalyzeHandler(srv.detector, srv.records, srv.publicURL, srv.opts...)))
	handle(mux, "/history", NewHandler(NewHistoryHandler(srv.records)))
}
