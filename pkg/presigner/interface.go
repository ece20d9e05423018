package presigner

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type UploadPresigner interface {
	// SignUploadURL creates and signs a URL that allows a PUT request to upload
	// an image to the given storage key.
	//
	// The ttl parameter determines how long the signed URL will be valid for.
	//
	// It returns a signed URL that will accept a PUT request, and a set of HTTP
	// headers that must also be sent with the request.
	SignUploadURL(ctx context.Context, key string, ttl time.Duration) (url.URL, http.Header, error)
}
