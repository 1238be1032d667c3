package proxy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Sternrassler/album-proxy/internal/testutil"
	"github.com/Sternrassler/album-proxy/pkg/album"
	"github.com/Sternrassler/album-proxy/pkg/cache"
	"github.com/Sternrassler/album-proxy/pkg/identifier"
	"github.com/Sternrassler/album-proxy/pkg/media"
	"github.com/Sternrassler/album-proxy/pkg/upstream"
)

const assetID = testutil.AssetPhoto

func newService(t *testing.T) (*Service, *MockUpstream) {
	t.Helper()
	ctrl := gomock.NewController(t)
	up := NewMockUpstream(ctrl)
	return NewService(up), up
}

func TestMedia_OriginalOK(t *testing.T) {
	svc, up := newService(t)
	up.EXPECT().
		FetchMedia(gomock.Any(), media.KindOriginal, identifier.ID(assetID), media.Size("")).
		Return(&upstream.Media{Data: []byte("heic-bytes"), ContentType: "image/heic", StatusCode: 200}, nil)

	resp, err := svc.Media(context.Background(), MediaRequest{Kind: media.KindOriginal, RawID: assetID})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []byte("heic-bytes"), resp.Body)
	assert.Equal(t, "image/heic", resp.Header.Get("Content-Type"))
	assert.Equal(t, "10", resp.Header.Get("Content-Length"))
	assert.Equal(t, "public, max-age=86400", resp.Header.Get("Cache-Control"))
	assert.Equal(t, cache.ETag("asset", identifier.ID(assetID)), resp.Header.Get("ETag"))
	assert.Empty(t, resp.Header.Get("Last-Modified"))
}

func TestMedia_ThumbnailOK(t *testing.T) {
	svc, up := newService(t)
	up.EXPECT().
		FetchMedia(gomock.Any(), media.KindThumbnail, identifier.ID(assetID), media.SizeThumbnail).
		Return(&upstream.Media{Data: testutil.JPEGBytes, StatusCode: 200}, nil)

	resp, err := svc.Media(context.Background(), MediaRequest{Kind: media.KindThumbnail, RawID: assetID})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, DefaultContentType, resp.Header.Get("Content-Type"))
	assert.Equal(t, "public, max-age=2592000, immutable", resp.Header.Get("Cache-Control"))
	assert.Equal(t, cache.ETag("thumb", identifier.ID(assetID)), resp.Header.Get("ETag"))
	assert.Equal(t,
		cache.SyntheticLastModified(identifier.ID(assetID)).Format(http.TimeFormat),
		resp.Header.Get("Last-Modified"))
}

func TestMedia_PreviewSize(t *testing.T) {
	svc, up := newService(t)
	up.EXPECT().
		FetchMedia(gomock.Any(), media.KindThumbnail, identifier.ID(assetID), media.SizePreview).
		Return(&upstream.Media{Data: []byte("big"), ContentType: "image/webp", StatusCode: 200}, nil)

	resp, err := svc.Media(context.Background(), MediaRequest{Kind: media.KindThumbnail, RawID: assetID, RawSize: "Preview"})
	require.NoError(t, err)

	assert.Equal(t, cache.ETag("preview", identifier.ID(assetID)), resp.Header.Get("ETag"))
}

func TestMedia_EmptyBody(t *testing.T) {
	svc, up := newService(t)
	up.EXPECT().
		FetchMedia(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&upstream.Media{Data: []byte{}, StatusCode: 200}, nil)

	resp, err := svc.Media(context.Background(), MediaRequest{Kind: media.KindOriginal, RawID: assetID})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "0", resp.Header.Get("Content-Length"))
	assert.NotEmpty(t, resp.Header.Get("ETag"))
}

func TestMedia_CanonicalisesIdentifier(t *testing.T) {
	svc, up := newService(t)
	up.EXPECT().
		FetchMedia(gomock.Any(), media.KindOriginal, identifier.ID(assetID), gomock.Any()).
		Return(&upstream.Media{Data: []byte("x"), StatusCode: 200}, nil)

	upper := "E7F5B9D1-4A6C-4D8E-B0A1-3B4C5D6E7F80"
	resp, err := svc.Media(context.Background(), MediaRequest{Kind: media.KindOriginal, RawID: upper})
	require.NoError(t, err)
	assert.Equal(t, cache.ETag("asset", identifier.ID(assetID)), resp.Header.Get("ETag"))
}

func TestMedia_NotModifiedWithoutUpstream(t *testing.T) {
	id := identifier.ID(assetID)
	thumbLM := cache.SyntheticLastModified(id).Format(http.TimeFormat)

	tests := []struct {
		name      string
		req       MediaRequest
		wantCache string
		wantLM    bool
	}{
		{
			name: "original etag",
			req: MediaRequest{
				Kind:        media.KindOriginal,
				RawID:       assetID,
				Conditional: cache.Conditional{IfNoneMatch: cache.ETag("asset", id)},
			},
			wantCache: "public, max-age=86400",
		},
		{
			name: "thumbnail etag",
			req: MediaRequest{
				Kind:        media.KindThumbnail,
				RawID:       assetID,
				Conditional: cache.Conditional{IfNoneMatch: cache.ETag("thumb", id)},
			},
			wantCache: "public, max-age=2592000, immutable",
			wantLM:    true,
		},
		{
			name: "thumbnail last-modified",
			req: MediaRequest{
				Kind:        media.KindThumbnail,
				RawID:       assetID,
				Conditional: cache.Conditional{IfModifiedSince: thumbLM},
			},
			wantCache: "public, max-age=2592000, immutable",
			wantLM:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations: any upstream call fails the test.
			svc, _ := newService(t)

			resp, err := svc.Media(context.Background(), tt.req)
			require.NoError(t, err)

			assert.Equal(t, http.StatusNotModified, resp.Status)
			assert.Empty(t, resp.Body)
			assert.Equal(t, tt.wantCache, resp.Header.Get("Cache-Control"))
			assert.NotEmpty(t, resp.Header.Get("ETag"))
			assert.Equal(t, tt.wantLM, resp.Header.Get("Last-Modified") != "")
			assert.Empty(t, resp.Header.Get("Content-Type"))
		})
	}
}

func TestMedia_StaleValidatorFetches(t *testing.T) {
	svc, up := newService(t)
	up.EXPECT().
		FetchMedia(gomock.Any(), media.KindThumbnail, gomock.Any(), gomock.Any()).
		Return(&upstream.Media{Data: []byte("fresh"), StatusCode: 200}, nil)

	resp, err := svc.Media(context.Background(), MediaRequest{
		Kind:        media.KindThumbnail,
		RawID:       assetID,
		Conditional: cache.Conditional{IfNoneMatch: `"thumb-0000"`},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestMedia_InvalidInputWithoutUpstream(t *testing.T) {
	tests := []struct {
		name        string
		req         MediaRequest
		wantKind    ErrorKind
		wantMessage string
	}{
		{
			name:        "asset not a uuid",
			req:         MediaRequest{Kind: media.KindOriginal, RawID: "not-a-uuid"},
			wantKind:    ErrorKindInvalidIdentifier,
			wantMessage: "Invalid asset ID format",
		},
		{
			name:        "thumbnail version 1 uuid",
			req:         MediaRequest{Kind: media.KindThumbnail, RawID: "e7f5b9d1-4a6c-1d8e-b0a1-3b4c5d6e7f80"},
			wantKind:    ErrorKindInvalidIdentifier,
			wantMessage: "Invalid asset ID format",
		},
		{
			name:        "path traversal",
			req:         MediaRequest{Kind: media.KindOriginal, RawID: "../albums"},
			wantKind:    ErrorKindInvalidIdentifier,
			wantMessage: "Invalid asset ID format",
		},
		{
			name:        "unknown size",
			req:         MediaRequest{Kind: media.KindThumbnail, RawID: assetID, RawSize: "huge"},
			wantKind:    ErrorKindInvalidSize,
			wantMessage: "Invalid thumbnail size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)

			_, err := svc.Media(context.Background(), tt.req)
			pErr := AsError(err)
			require.NotNil(t, pErr, "expected *Error, got %v", err)

			assert.Equal(t, tt.wantKind, pErr.Kind)
			assert.Equal(t, http.StatusBadRequest, pErr.Status)
			assert.Equal(t, tt.wantMessage, pErr.Message())
		})
	}
}

func TestMedia_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name        string
		kind        media.Kind
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "not found forwarded",
			kind:        media.KindOriginal,
			err:         &upstream.Error{StatusCode: 404, Class: upstream.ErrorClassClient},
			wantStatus:  404,
			wantMessage: "Asset not found",
		},
		{
			name:        "server error forwarded verbatim",
			kind:        media.KindThumbnail,
			err:         &upstream.Error{StatusCode: 503, Class: upstream.ErrorClassServer},
			wantStatus:  503,
			wantMessage: "Thumbnail not found",
		},
		{
			name:        "network error becomes 404",
			kind:        media.KindThumbnail,
			err:         &upstream.Error{Class: upstream.ErrorClassNetwork, Err: io.ErrUnexpectedEOF},
			wantStatus:  404,
			wantMessage: "Thumbnail not found",
		},
		{
			name:        "body read failure becomes 404",
			kind:        media.KindOriginal,
			err:         &upstream.Error{StatusCode: 200, Class: upstream.ErrorClassNetwork, Err: io.ErrUnexpectedEOF},
			wantStatus:  404,
			wantMessage: "Asset not found",
		},
		{
			name:        "exhausted retries keep last status",
			kind:        media.KindOriginal,
			err:         errors.Join(upstream.ErrRetryExhausted, &upstream.Error{StatusCode: 502, Class: upstream.ErrorClassServer}),
			wantStatus:  502,
			wantMessage: "Asset not found",
		},
		{
			name:        "unclassified error becomes 404",
			kind:        media.KindOriginal,
			err:         context.Canceled,
			wantStatus:  404,
			wantMessage: "Asset not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, up := newService(t)
			up.EXPECT().FetchMedia(gomock.Any(), tt.kind, gomock.Any(), gomock.Any()).Return(nil, tt.err)

			_, err := svc.Media(context.Background(), MediaRequest{Kind: tt.kind, RawID: assetID})
			pErr := AsError(err)
			require.NotNil(t, pErr)

			assert.Equal(t, ErrorKindNotFound, pErr.Kind)
			assert.Equal(t, tt.wantStatus, pErr.Status)
			assert.Equal(t, tt.wantMessage, pErr.Message())
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestMedia_AlbumKindRejected(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Media(context.Background(), MediaRequest{Kind: media.KindAlbum, RawID: testutil.AlbumSummer})
	require.Error(t, err)
	assert.Nil(t, AsError(err))
}

func TestAlbum(t *testing.T) {
	svc, up := newService(t)
	want := &album.Album{ID: testutil.AlbumSummer, AlbumName: "Summer"}
	up.EXPECT().FetchAlbum(gomock.Any(), identifier.ID(testutil.AlbumSummer)).Return(want, nil)

	got, err := svc.Album(context.Background(), testutil.AlbumSummer)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestAlbum_Errors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Album(context.Background(), "not-a-uuid")
		pErr := AsError(err)
		require.NotNil(t, pErr)
		assert.Equal(t, http.StatusBadRequest, pErr.Status)
		assert.Equal(t, "Invalid album ID format", pErr.Message())
	})

	t.Run("network failure", func(t *testing.T) {
		svc, up := newService(t)
		up.EXPECT().FetchAlbum(gomock.Any(), gomock.Any()).
			Return(nil, &upstream.Error{Class: upstream.ErrorClassNetwork, Message: "request failed", Err: io.EOF})

		_, err := svc.Album(context.Background(), testutil.AlbumSummer)
		pErr := AsError(err)
		require.NotNil(t, pErr)
		assert.Equal(t, http.StatusNotFound, pErr.Status)
		assert.Equal(t, "Album not found", pErr.Message())
		assert.NotContains(t, pErr.Message(), testutil.TestAPIKey)
	})

	t.Run("forbidden forwarded", func(t *testing.T) {
		svc, up := newService(t)
		up.EXPECT().FetchAlbum(gomock.Any(), gomock.Any()).
			Return(nil, &upstream.Error{StatusCode: 403, Class: upstream.ErrorClassClient})

		_, err := svc.Album(context.Background(), testutil.AlbumSummer)
		pErr := AsError(err)
		require.NotNil(t, pErr)
		assert.Equal(t, http.StatusForbidden, pErr.Status)
	})
}

func TestAlbums(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc, up := newService(t)
		up.EXPECT().FetchAlbums(gomock.Any()).Return([]album.Album{{ID: "a"}, {ID: "b"}}, nil)

		albums, err := svc.Albums(context.Background())
		require.NoError(t, err)
		assert.Len(t, albums, 2)
	})

	t.Run("failure", func(t *testing.T) {
		svc, up := newService(t)
		up.EXPECT().FetchAlbums(gomock.Any()).Return(nil, &upstream.Error{StatusCode: 404, Class: upstream.ErrorClassClient})

		_, err := svc.Albums(context.Background())
		pErr := AsError(err)
		require.NotNil(t, pErr)
		assert.Equal(t, ErrorKindListFailure, pErr.Kind)
		assert.Equal(t, http.StatusInternalServerError, pErr.Status)
		assert.Equal(t, "Failed to fetch albums", pErr.Message())
	})
}

func TestYearIndex(t *testing.T) {
	svc, up := newService(t)
	up.EXPECT().FetchAlbums(gomock.Any()).Return([]album.Album{
		{ID: "a", StartDate: "2023-06-01T00:00:00.000Z"},
		{ID: "b", StartDate: "2021-01-05T00:00:00.000Z"},
		{ID: "c"},
		{ID: "d", StartDate: "2023-09-01T00:00:00.000Z"},
	}, nil)

	byYear, years, err := svc.YearIndex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"2023", "2021"}, years)
	require.Len(t, byYear["2023"], 2)
	assert.Equal(t, "d", byYear["2023"][0].ID)
	assert.Equal(t, "a", byYear["2023"][1].ID)
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: ErrorKindInvalidIdentifier, Media: media.KindAlbum}, "Invalid album ID format"},
		{&Error{Kind: ErrorKindInvalidIdentifier, Media: media.KindThumbnail}, "Invalid asset ID format"},
		{&Error{Kind: ErrorKindNotFound, Media: media.KindAlbum}, "Album not found"},
		{&Error{Kind: ErrorKindNotFound, Media: media.KindOriginal}, "Asset not found"},
		{&Error{Kind: ErrorKindNotFound, Media: media.KindThumbnail}, "Thumbnail not found"},
		{&Error{Kind: ErrorKindListFailure}, "Failed to fetch albums"},
		{&Error{Kind: "other", Status: http.StatusTeapot}, "I'm a teapot"},
	}

	for _, tt := range tests {
		if got := tt.err.Message(); got != tt.want {
			t.Errorf("Message() for %s = %q, want %q", tt.err.Kind, got, tt.want)
		}
	}
}
