package album

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAlbum_RoundTripPreservesUnknownFields(t *testing.T) {
	input := `{
		"id": "3f2b8c1e-9a4d-4e6f-8b1a-2c3d4e5f6a7b",
		"albumName": "Lisbon",
		"albumThumbnailAssetId": "9d0e1f2a-3b4c-4d5e-8f6a-7b8c9d0e1f2a",
		"description": "",
		"startDate": "2023-05-01T10:00:00.000Z",
		"endDate": null,
		"assetCount": 2,
		"shared": false,
		"owner": {"name": "jamie", "email": "jamie@example.com"},
		"assets": [
			{"id": "a1", "type": "IMAGE", "exifInfo": {"make": "FUJIFILM"}},
			{"id": "a2", "type": "VIDEO", "duration": "0:00:12.000"}
		]
	}`

	var a Album
	if err := json.Unmarshal([]byte(input), &a); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if a.AlbumName != "Lisbon" {
		t.Errorf("AlbumName = %q, want Lisbon", a.AlbumName)
	}
	if len(a.Assets) != 2 || a.Assets[1].Type != "VIDEO" {
		t.Fatalf("Assets = %+v, want two assets with a VIDEO second", a.Assets)
	}
	if _, ok := a.Extra["owner"]; !ok {
		t.Error("Extra is missing the owner field")
	}
	if _, ok := a.Assets[0].Extra["exifInfo"]; !ok {
		t.Error("asset Extra is missing exifInfo")
	}

	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var want, got map[string]any
	if err := json.Unmarshal([]byte(input), &want); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("round trip mismatch\nwant: %v\ngot:  %v", want, got)
	}
}

func TestAlbum_MarshalOmitsAbsentOptionalFields(t *testing.T) {
	a := Album{ID: "x", AlbumName: "Empty"}

	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if string(out) != `{"albumName":"Empty","id":"x"}` {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestAlbum_UnmarshalRejectsNonObject(t *testing.T) {
	var a Album
	if err := json.Unmarshal([]byte(`["not", "an", "album"]`), &a); err == nil {
		t.Error("Unmarshal() of an array should fail")
	}
}

func TestAlbum_Start(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		wantOK bool
		year   int
	}{
		{"rfc3339 with millis", "2023-05-01T10:00:00.000Z", true, 2023},
		{"rfc3339 offset", "2024-01-01T00:30:00+02:00", true, 2023},
		{"date only", "2022-12-31", true, 2022},
		{"empty", "", false, 0},
		{"garbage", "last summer", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Album{StartDate: tt.start}
			got, ok := a.Start()
			if ok != tt.wantOK {
				t.Fatalf("Start() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.UTC().Year() != tt.year {
				t.Errorf("Start() year = %d, want %d", got.UTC().Year(), tt.year)
			}
		})
	}
}
