package proxy

//go:generate mockgen -source=upstream.go -destination=mock_upstream_test.go -package=proxy Upstream

import (
	"context"

	"github.com/Sternrassler/album-proxy/pkg/album"
	"github.com/Sternrassler/album-proxy/pkg/identifier"
	"github.com/Sternrassler/album-proxy/pkg/media"
	"github.com/Sternrassler/album-proxy/pkg/upstream"
)

// Upstream is the photo service as seen by the media service. It is
// implemented by *upstream.Client.
type Upstream interface {
	FetchAlbums(ctx context.Context) ([]album.Album, error)
	FetchAlbum(ctx context.Context, id identifier.ID) (*album.Album, error)
	FetchMedia(ctx context.Context, kind media.Kind, id identifier.ID, size media.Size) (*upstream.Media, error)
}

var _ Upstream = (*upstream.Client)(nil)
