package models

// LatLng is a geographic coordinate in degrees
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ViewportMode selects how the map viewport is derived from the cell set
type ViewportMode string

const (
	ViewportFitAll ViewportMode = "fit_all"
	ViewportFocus  ViewportMode = "focus"
)

// Viewport is either a bounding box (fit-all) or a center and zoom (focus).
// Exactly one of Bounds and Center is set.
type Viewport struct {
	Mode    ViewportMode `json:"mode"`
	Bounds  *Bounds      `json:"bounds,omitempty"`
	Padding int          `json:"padding,omitempty"`     // Pixels, applies to Bounds
	Span    float64      `json:"span_meters,omitempty"` // Bounds diagonal, great-circle
	Center  *LatLng      `json:"center,omitempty"`
	Zoom    int          `json:"zoom,omitempty"`
}

// Bounds is an axis-aligned box over latitude and longitude
type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}
