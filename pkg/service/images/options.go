package images

import "time"

type options struct {
	clock     func() time.Time
	uploadTTL time.Duration
}

type Option func(*options)

// WithClock sets the source of record timestamps. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithUploadTTL sets how long issued upload URLs are valid for. Defaults to
// one hour.
func WithUploadTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.uploadTTL = ttl
	}
}
