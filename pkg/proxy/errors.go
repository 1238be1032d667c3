package proxy

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Sternrassler/album-proxy/pkg/media"
	"github.com/Sternrassler/album-proxy/pkg/upstream"
)

// ErrorKind classifies failures surfaced to the browser.
type ErrorKind string

const (
	// ErrorKindInvalidIdentifier is a malformed album or asset id (400).
	ErrorKindInvalidIdentifier ErrorKind = "invalid-identifier"

	// ErrorKindInvalidSize is an unknown thumbnail variant (400).
	ErrorKindInvalidSize ErrorKind = "invalid-size"

	// ErrorKindNotFound is any failed single-resource fetch (404 or the
	// upstream status).
	ErrorKindNotFound ErrorKind = "media-not-found"

	// ErrorKindListFailure is a failed album index fetch (500).
	ErrorKindListFailure ErrorKind = "upstream-list-failure"
)

// Error is a failure with a browser-facing status. Err holds the detail that
// is logged but never sent to the client.
type Error struct {
	Kind   ErrorKind
	Status int
	Media  media.Kind
	ID     string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s (status %d)", e.Kind, e.Status)
	if e.Media != "" {
		msg += " " + string(e.Media)
	}
	if e.ID != "" {
		msg += fmt.Sprintf(" id=%q", e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the short generic text sent to the browser.
func (e *Error) Message() string {
	switch e.Kind {
	case ErrorKindInvalidIdentifier:
		if e.Media == media.KindAlbum {
			return "Invalid album ID format"
		}
		return "Invalid asset ID format"
	case ErrorKindInvalidSize:
		return "Invalid thumbnail size"
	case ErrorKindListFailure:
		return "Failed to fetch albums"
	case ErrorKindNotFound:
		switch e.Media {
		case media.KindAlbum:
			return "Album not found"
		case media.KindThumbnail:
			return "Thumbnail not found"
		default:
			return "Asset not found"
		}
	default:
		return http.StatusText(e.Status)
	}
}

// notFoundStatus picks the status for a failed fetch: the upstream status
// when one was received, 404 for transport failures and anything else.
func notFoundStatus(err error) int {
	var upErr *upstream.Error
	if errors.As(err, &upErr) && upErr.Class != upstream.ErrorClassNetwork && upErr.HasStatus() {
		return upErr.StatusCode
	}
	return http.StatusNotFound
}

// AsError returns the *Error in err's chain, or nil.
func AsError(err error) *Error {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr
	}
	return nil
}
