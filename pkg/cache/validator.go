package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/Sternrassler/album-proxy/pkg/identifier"
)

// tagDigestLength is the number of hex characters of the digest kept in a tag.
const tagDigestLength = 32

// Synthetic Last-Modified instants fall inside a fixed ten-year window so
// they are always in the past and never move.
var (
	lastModifiedEpoch  = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	lastModifiedWindow = uint64(10 * 365 * 24 * 60 * 60)
)

// Validators are the cache validators for one (policy, identifier) pair.
type Validators struct {
	// ETag is the quoted strong entity tag, or "" when the policy has none.
	ETag string

	// LastModified is the synthetic modification instant, zero when unused.
	LastModified time.Time
}

// Compute derives the validators for id under p. The result depends only on
// its inputs.
func Compute(p Policy, id identifier.ID) Validators {
	var v Validators
	if p.TagPrefix != "" {
		v.ETag = ETag(p.TagPrefix, id)
	}
	if p.LastModified {
		v.LastModified = SyntheticLastModified(id)
	}
	return v
}

// ETag returns the strong tag `"<prefix>-<digest>"` where digest is the first
// 32 hex characters of SHA-256("<prefix>:<id>").
func ETag(prefix string, id identifier.ID) string {
	sum := sha256.Sum256([]byte(prefix + ":" + id.String()))
	return `"` + prefix + "-" + hex.EncodeToString(sum[:])[:tagDigestLength] + `"`
}

// SyntheticLastModified maps id to a stable instant with whole-second
// precision: the first 8 bytes of SHA-256(id), big-endian, modulo the window,
// added to 2015-01-01T00:00:00Z.
func SyntheticLastModified(id identifier.ID) time.Time {
	sum := sha256.Sum256([]byte(id.String()))
	offset := binary.BigEndian.Uint64(sum[:8]) % lastModifiedWindow
	return lastModifiedEpoch.Add(time.Duration(offset) * time.Second)
}
