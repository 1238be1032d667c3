package testutil

import (
	"encoding/json"
	"fmt"
)

// Fixed identifiers used across tests. All are valid v4 UUIDs.
const (
	AlbumSummer  = "b4c2e6a8-1d3f-4a5b-9c7d-0e1f2a3b4c5d"
	AlbumWinter  = "c5d3f7b9-2e4a-4b6c-8d8e-1f2a3b4c5d6e"
	AlbumUndated = "d6e4a8c0-3f5b-4c7d-a9f0-2a3b4c5d6e7f"

	AssetPhoto  = "e7f5b9d1-4a6c-4d8e-b0a1-3b4c5d6e7f80"
	AssetPhoto2 = "f806cae2-5b7d-4e9f-81b2-4c5d6e7f8091"
	AssetVideo  = "0917dbf3-6c8e-4fa0-92c3-5d6e7f8091a2"
)

// AlbumJSON renders a minimal album record. startDate "" omits the date
// fields. Extra fields ride along to exercise pass-through.
func AlbumJSON(id, name, startDate string, assets ...string) string {
	record := map[string]any{
		"id":                    id,
		"albumName":             name,
		"albumThumbnailAssetId": AssetPhoto,
		"description":           "Pictures of " + name,
		"ownerId":               "owner-1",
		"shared":                false,
	}
	if startDate != "" {
		record["startDate"] = startDate
		record["endDate"] = startDate
	}

	list := make([]map[string]any, 0, len(assets))
	for _, assetID := range assets {
		kind := "IMAGE"
		if assetID == AssetVideo {
			kind = "VIDEO"
		}
		list = append(list, map[string]any{
			"id":               assetID,
			"type":             kind,
			"originalFileName": fmt.Sprintf("%s.jpg", assetID[:8]),
		})
	}
	record["assets"] = list
	record["assetCount"] = len(list)

	data, err := json.Marshal(record)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// AlbumListJSON joins album records into a JSON array.
func AlbumListJSON(records ...string) string {
	out := "["
	for i, r := range records {
		if i > 0 {
			out += ","
		}
		out += r
	}
	return out + "]"
}

// JPEGBytes is a tiny payload with a JPEG signature.
var JPEGBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}
