package album

import (
	"unicode/utf16"
)

// displayDateLayout matches the long US form, e.g. "May 1, 2023".
const displayDateLayout = "January 2, 2006"

// Rotation returns a decorative tilt in degrees within [-3, 3) for an album
// card. The same id always yields the same tilt.
func Rotation(id string) float64 {
	return tilt(shiftHash(id, 5), 600, 3)
}

// CaptionRotation returns a decorative tilt in degrees within [-2, 2) for an
// album caption.
func CaptionRotation(id string) float64 {
	return tilt(shiftHash(id, 3), 400, 2)
}

// shiftHash folds the UTF-16 code units of s into a wrapping 32-bit value
// with h = (h << shift) - h + c. Browsers compute the same value.
func shiftHash(s string, shift uint) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << shift) - h + int32(c)
	}
	return h
}

func tilt(h int32, modulus int64, offset float64) float64 {
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return float64(v%modulus)/100 - offset
}

// Images returns the assets that are not videos, preserving order.
func Images(assets []Asset) []Asset {
	images := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if a.IsVideo() {
			continue
		}
		images = append(images, a)
	}
	return images
}

// DateRange renders the album's dates for display. It returns the start date
// alone when there is no end date or both fall on the same day, "start - end"
// when they differ, and "" when the start date is missing.
func DateRange(a *Album) string {
	start, ok := a.Start()
	if !ok {
		return ""
	}
	startText := start.UTC().Format(displayDateLayout)

	end, ok := a.End()
	if !ok {
		return startText
	}
	endText := end.UTC().Format(displayDateLayout)
	if endText == startText {
		return startText
	}
	return startText + " - " + endText
}
