// Package api defines the transport boundary of the client: the Caller
// contract every gateway operation goes through, the Envelope wrapper carried
// on the event bus, and the error taxonomy the gateways branch on.
package api

import (
	"context"
	"encoding/json"
)

// Options describes one remote call. Params are encoded as query parameters
// for GET/DELETE and as a JSON body otherwise.
type Options struct {
	Method string
	Params map[string]any
}

// Caller performs one network round trip against the remote API. It must
// return an error (a *StatusError for non-2xx responses) rather than a
// payload on failure, and the already-parsed body otherwise.
type Caller interface {
	Call(ctx context.Context, endpoint string, opts Options) (json.RawMessage, error)
}

// Uploader is the side-channel for binary transfers in the two-phase upload
// protocol: the remote API hands out a URL per part and the bytes go there
// directly, outside the JSON surface.
type Uploader interface {
	Put(ctx context.Context, url string, contentType string, data []byte) error
}
