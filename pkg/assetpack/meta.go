package assetpack

// PackMeta is the pack metadata document embedded in every archive.
// ID doubles as the namespace root segment: on write, every absolute path
// inside the archive is re-derived as res://packs/<ID>/<relative path>.
type PackMeta struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Version string `json:"version"`
	Author  string `json:"author"`

	// CustomColorOverrides tunes the colorable-object detection in the
	// editor. Optional; omitted from the document when absent.
	CustomColorOverrides *ColorOverrides `json:"custom_color_overrides,omitempty"`
}

// ColorOverrides holds the thresholds for custom-color object detection.
type ColorOverrides struct {
	Enabled       bool    `json:"enabled"`
	MinRedness    float32 `json:"min_redness"`
	MinSaturation float32 `json:"min_saturation"`
	RedTolerance  float32 `json:"red_tolerance"`
}
