package images

import (
	"fmt"
	"net/http"

	"github.com/imganalysis/imganalysis/internal/telemetry"
	"github.com/imganalysis/imganalysis/pkg/presigner"
)

type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
}

// NewUploadURLHandler issues pre-signed URLs that allow a client to PUT an
// image directly into object storage under the requested file name.
func NewUploadURLHandler(signer presigner.UploadPresigner, opts ...Option) telemetry.ErrorReturningHTTPHandler {
	o := newOptions(opts)
	return func(w http.ResponseWriter, r *http.Request) error {
		key, err := filename(r)
		if err != nil {
			return err
		}

		u, _, err := signer.SignUploadURL(r.Context(), key, o.uploadTTL)
		if err != nil {
			return fmt.Errorf("presigning upload for %s: %w", key, err)
		}

		log.Debugf("issued upload URL for %s", key)
		return writeJSON(w, http.StatusOK, uploadURLResponse{UploadURL: u.String()})
	}
}
