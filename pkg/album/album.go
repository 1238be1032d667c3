// Package album models the album and asset records returned by the photo
// service and provides the pure transformations used by the presentation
// layer: year grouping, decorative tilt, image filtering and date ranges.
package album

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Album is an album record. Fields the proxy does not interpret are kept in
// Extra and written back unchanged when the album is re-encoded.
type Album struct {
	ID                    string
	AlbumName             string
	AlbumThumbnailAssetID string
	Description           string
	StartDate             string
	EndDate               string
	Assets                []Asset

	// Extra holds every field not listed above, verbatim.
	Extra map[string]json.RawMessage

	present fieldSet
}

// Asset is a photo or video inside an album.
type Asset struct {
	ID               string
	Type             string
	OriginalFileName string

	Extra map[string]json.RawMessage

	present fieldSet
}

// Start returns the parsed start instant of the album.
func (a *Album) Start() (time.Time, bool) {
	return parseInstant(a.StartDate)
}

// End returns the parsed end instant of the album.
func (a *Album) End() (time.Time, bool) {
	return parseInstant(a.EndDate)
}

// IsVideo reports whether the asset is a video.
func (a *Asset) IsVideo() bool {
	return strings.Contains(strings.ToLower(a.Type), "video")
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Album) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("decode album: %w", err)
	}

	*a = Album{present: fieldSet{}}
	fields := []struct {
		key string
		dst any
	}{
		{"id", &a.ID},
		{"albumName", &a.AlbumName},
		{"albumThumbnailAssetId", &a.AlbumThumbnailAssetID},
		{"description", &a.Description},
		{"startDate", &a.StartDate},
		{"endDate", &a.EndDate},
		{"assets", &a.Assets},
	}
	for _, f := range fields {
		if err := takeField(raw, a.present, f.key, f.dst); err != nil {
			return fmt.Errorf("decode album field %s: %w", f.key, err)
		}
	}

	if len(raw) > 0 {
		a.Extra = raw
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Album) MarshalJSON() ([]byte, error) {
	out := cloneExtra(a.Extra)

	fields := []struct {
		key  string
		val  any
		zero bool
	}{
		{"id", a.ID, false},
		{"albumName", a.AlbumName, false},
		{"albumThumbnailAssetId", a.AlbumThumbnailAssetID, a.AlbumThumbnailAssetID == ""},
		{"description", a.Description, a.Description == ""},
		{"startDate", a.StartDate, a.StartDate == ""},
		{"endDate", a.EndDate, a.EndDate == ""},
		{"assets", a.Assets, a.Assets == nil},
	}
	for _, f := range fields {
		if err := putField(out, a.present, f.key, f.val, f.zero); err != nil {
			return nil, fmt.Errorf("encode album field %s: %w", f.key, err)
		}
	}

	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Asset) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("decode asset: %w", err)
	}

	*a = Asset{present: fieldSet{}}
	if err := takeField(raw, a.present, "id", &a.ID); err != nil {
		return fmt.Errorf("decode asset field id: %w", err)
	}
	if err := takeField(raw, a.present, "type", &a.Type); err != nil {
		return fmt.Errorf("decode asset field type: %w", err)
	}
	if err := takeField(raw, a.present, "originalFileName", &a.OriginalFileName); err != nil {
		return fmt.Errorf("decode asset field originalFileName: %w", err)
	}

	if len(raw) > 0 {
		a.Extra = raw
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Asset) MarshalJSON() ([]byte, error) {
	out := cloneExtra(a.Extra)

	if err := putField(out, a.present, "id", a.ID, false); err != nil {
		return nil, err
	}
	if err := putField(out, a.present, "type", a.Type, a.Type == ""); err != nil {
		return nil, err
	}
	if err := putField(out, a.present, "originalFileName", a.OriginalFileName, a.OriginalFileName == ""); err != nil {
		return nil, err
	}

	return json.Marshal(out)
}

// fieldSet records which known keys were present in the decoded input, so a
// zero value that came from upstream is written back instead of dropped.
type fieldSet map[string]bool

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}
	return raw, nil
}

// takeField moves key out of raw into dst. A JSON null is left in raw so it
// survives re-encoding as null.
func takeField(raw map[string]json.RawMessage, present fieldSet, key string, dst any) error {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return err
	}
	delete(raw, key)
	present[key] = true
	return nil
}

func putField(out map[string]json.RawMessage, present fieldSet, key string, val any, zero bool) error {
	if zero && !present[key] {
		return nil
	}
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	out[key] = b
	return nil
}

func cloneExtra(extra map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(extra)+8)
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// parseInstant accepts RFC 3339 timestamps (with or without fractional
// seconds) and bare dates.
func parseInstant(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
