package cache

import (
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/album-proxy/pkg/media"
)

const (
	// OriginalMaxAge is the freshness window for original assets.
	OriginalMaxAge = 24 * time.Hour

	// ThumbnailMaxAge is the freshness window for thumbnails.
	ThumbnailMaxAge = 30 * 24 * time.Hour
)

// Policy describes how a client may cache one kind of media.
type Policy struct {
	// Kind is the media kind the policy applies to.
	Kind media.Kind

	// MaxAge is the freshness lifetime. Zero means the response must not be stored.
	MaxAge time.Duration

	// Public allows shared caches to store the response.
	Public bool

	// Immutable tells clients the body never changes while fresh.
	Immutable bool

	// TagPrefix names the strong ETag ("" disables ETags).
	TagPrefix string

	// LastModified enables the synthetic Last-Modified validator.
	LastModified bool
}

// PolicyFor returns the cache policy for a kind. size only matters for
// thumbnails, where each variant gets its own tag namespace.
func PolicyFor(kind media.Kind, size media.Size) Policy {
	switch kind {
	case media.KindOriginal:
		return Policy{
			Kind:      kind,
			MaxAge:    OriginalMaxAge,
			Public:    true,
			TagPrefix: "asset",
		}
	case media.KindThumbnail:
		prefix := "thumb"
		if size == media.SizePreview {
			prefix = "preview"
		}
		return Policy{
			Kind:         kind,
			MaxAge:       ThumbnailMaxAge,
			Public:       true,
			Immutable:    true,
			TagPrefix:    prefix,
			LastModified: true,
		}
	default:
		// Album contents change server-side; always refetch.
		return Policy{Kind: kind}
	}
}

// Cacheable reports whether clients may store the response at all.
func (p Policy) Cacheable() bool {
	return p.MaxAge > 0
}

// CacheControl renders the Cache-Control header value.
func (p Policy) CacheControl() string {
	if !p.Cacheable() {
		return "no-store"
	}

	parts := make([]string, 0, 3)
	if p.Public {
		parts = append(parts, "public")
	}
	parts = append(parts, "max-age="+strconv.FormatInt(int64(p.MaxAge/time.Second), 10))
	if p.Immutable {
		parts = append(parts, "immutable")
	}
	return strings.Join(parts, ", ")
}
