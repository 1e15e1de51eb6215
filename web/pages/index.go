// Package pages holds the HTML pages served next to the API.
package pages

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// IndexData is rendered by Index.
type IndexData struct {
	BaseURL  string
	MaxWidth int
}

type param struct {
	name, def, desc string
}

var params = []param{
	{"data | url | text", "required", "Content to encode. The first non-empty one is used."},
	{"width", "1000", "Code width in pixels, at least 1000."},
	{"errorCorrectionLevel", "H", "L, M, Q or H."},
	{"margin", "1", "Quiet zone in modules, 1 to 50."},
	{"darkColor", "#000000", "Hex color of dark modules and the frame."},
	{"lightColor", "#FFFFFF", "Hex background color."},
	{"frameStyle", "none", "none, rounded, square or circle."},
	{"pixelStyle", "square", "square, rounded or dots."},
	{"logo", "", "Data URL, base64 image or multipart file drawn at the center."},
	{"logoSize", "20", "Logo width as a percentage of the code width."},
}

const cellBase = "px-3 py-2 border-b border-gray-200 text-sm text-gray-700 font-normal"

// cellClass merges override into the shared table cell classes. Conflicting
// utilities in override replace the base ones.
func cellClass(override string) string {
	return twmerge.Merge(cellBase, override)
}

func exampleURL(base string) string {
	return base + "/api/generate?data=https://example.com&pixelStyle=dots&frameStyle=rounded"
}
