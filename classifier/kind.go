package classifier

import (
	"context"
	"errors"
	"net/http"

	"github.com/octabyte/bm-health-portal/gateway"
	"github.com/octabyte/bm-health-portal/session"
)

// Kind is the category a failed request falls into.
type Kind string

const (
	KindUnauthorized     Kind = "unauthorized"
	KindForbidden        Kind = "forbidden"
	KindNotFound         Kind = "not_found"
	KindServer           Kind = "server"
	KindClient           Kind = "client"
	KindNetwork          Kind = "network"
	KindDecode           Kind = "decode"
	KindCancelled        Kind = "cancelled"
	KindNotAuthenticated Kind = "not_authenticated"
	KindUnknown          Kind = "unknown"
)

// KindOf classifies err. A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	if errors.Is(err, session.ErrNotAuthenticated) {
		return KindNotAuthenticated
	}

	var httpErr *gateway.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.Status == http.StatusUnauthorized:
			return KindUnauthorized
		case httpErr.Status == http.StatusForbidden:
			return KindForbidden
		case httpErr.Status == http.StatusNotFound:
			return KindNotFound
		case httpErr.Status >= 500:
			return KindServer
		default:
			return KindClient
		}
	}

	var decodeErr *gateway.DecodeError
	if errors.As(err, &decodeErr) {
		return KindDecode
	}

	var transportErr *gateway.TransportError
	if errors.As(err, &transportErr) {
		return KindNetwork
	}

	// Client timeouts surface as TransportError above; only the caller's own
	// context ends up here.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCancelled
	}

	return KindUnknown
}
