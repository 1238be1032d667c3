package cache

import (
	"testing"

	"github.com/Sternrassler/album-proxy/pkg/media"
)

func TestPolicy_CacheControl(t *testing.T) {
	tests := []struct {
		name string
		kind media.Kind
		size media.Size
		want string
	}{
		{
			name: "original asset",
			kind: media.KindOriginal,
			want: "public, max-age=86400",
		},
		{
			name: "thumbnail",
			kind: media.KindThumbnail,
			size: media.SizeThumbnail,
			want: "public, max-age=2592000, immutable",
		},
		{
			name: "preview thumbnail",
			kind: media.KindThumbnail,
			size: media.SizePreview,
			want: "public, max-age=2592000, immutable",
		},
		{
			name: "album metadata",
			kind: media.KindAlbum,
			want: "no-store",
		},
		{
			name: "unknown kind",
			kind: media.Kind("mystery"),
			want: "no-store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolicyFor(tt.kind, tt.size).CacheControl(); got != tt.want {
				t.Errorf("CacheControl() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPolicyFor_Validators(t *testing.T) {
	tests := []struct {
		name             string
		policy           Policy
		wantPrefix       string
		wantLastModified bool
	}{
		{"original", PolicyFor(media.KindOriginal, ""), "asset", false},
		{"thumbnail", PolicyFor(media.KindThumbnail, media.SizeThumbnail), "thumb", true},
		{"preview", PolicyFor(media.KindThumbnail, media.SizePreview), "preview", true},
		{"album", PolicyFor(media.KindAlbum, ""), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.policy.TagPrefix != tt.wantPrefix {
				t.Errorf("TagPrefix = %q, want %q", tt.policy.TagPrefix, tt.wantPrefix)
			}
			if tt.policy.LastModified != tt.wantLastModified {
				t.Errorf("LastModified = %v, want %v", tt.policy.LastModified, tt.wantLastModified)
			}
		})
	}
}
