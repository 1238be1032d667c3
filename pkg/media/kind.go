// Package media names the kinds of resources the proxy serves.
package media

import (
	"errors"
	"strings"
)

// Kind classifies a proxied resource. It selects the upstream path and the
// cache policy.
type Kind string

const (
	// KindAlbum is album metadata (JSON).
	KindAlbum Kind = "album-metadata"

	// KindOriginal is the original-quality asset binary.
	KindOriginal Kind = "original-asset"

	// KindThumbnail is a reduced-quality asset binary.
	KindThumbnail Kind = "thumbnail"
)

// Binary reports whether the kind is fetched as raw bytes.
func (k Kind) Binary() bool {
	return k == KindOriginal || k == KindThumbnail
}

// Size selects a thumbnail variant.
type Size string

const (
	// SizeThumbnail is the small default variant.
	SizeThumbnail Size = "thumbnail"

	// SizePreview is the larger variant used by lightboxes.
	SizePreview Size = "preview"
)

// ErrInvalidSize is returned by ParseSize for unknown variants.
var ErrInvalidSize = errors.New("invalid thumbnail size")

// ParseSize maps a query value to a Size. The empty string selects
// SizeThumbnail.
func ParseSize(s string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SizeThumbnail):
		return SizeThumbnail, nil
	case string(SizePreview):
		return SizePreview, nil
	default:
		return "", ErrInvalidSize
	}
}
