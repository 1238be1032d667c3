package cache

import (
	"net/http"
)

// Validator names the validator that produced a 304.
type Validator string

const (
	// ValidatorNone means the request was not short-circuited.
	ValidatorNone Validator = ""

	// ValidatorETag means If-None-Match matched.
	ValidatorETag Validator = "etag"

	// ValidatorLastModified means If-Modified-Since matched.
	ValidatorLastModified Validator = "last_modified"
)

// Conditional carries the inbound conditional request headers.
type Conditional struct {
	IfNoneMatch     string
	IfModifiedSince string
}

// ConditionalFromHeader extracts the conditional headers from a request.
func ConditionalFromHeader(h http.Header) Conditional {
	return Conditional{
		IfNoneMatch:     h.Get("If-None-Match"),
		IfModifiedSince: h.Get("If-Modified-Since"),
	}
}

// Present reports whether the request carried any validator.
func (c Conditional) Present() bool {
	return c.IfNoneMatch != "" || c.IfModifiedSince != ""
}

// NotModified decides whether the request can be answered with 304 without
// contacting upstream.
//
// If-None-Match must equal the computed tag byte-for-byte, quotes included.
// If-Modified-Since is only consulted when If-None-Match is absent and must
// name exactly the synthetic instant.
func NotModified(p Policy, v Validators, c Conditional) (bool, Validator) {
	if !p.Cacheable() {
		return false, ValidatorNone
	}

	if c.IfNoneMatch != "" {
		if v.ETag != "" && c.IfNoneMatch == v.ETag {
			return true, ValidatorETag
		}
		return false, ValidatorNone
	}

	if p.LastModified && !v.LastModified.IsZero() && c.IfModifiedSince != "" {
		since, err := http.ParseTime(c.IfModifiedSince)
		if err == nil && since.Equal(v.LastModified) {
			return true, ValidatorLastModified
		}
	}

	return false, ValidatorNone
}

// ApplyHeaders sets Cache-Control and the validators on a response header.
// It is used for both 200 and 304 responses.
func ApplyHeaders(h http.Header, p Policy, v Validators) {
	h.Set("Cache-Control", p.CacheControl())
	if v.ETag != "" {
		h.Set("ETag", v.ETag)
	}
	if p.LastModified && !v.LastModified.IsZero() {
		h.Set("Last-Modified", v.LastModified.UTC().Format(http.TimeFormat))
	}
}
