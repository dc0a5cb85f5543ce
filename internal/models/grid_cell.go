package models

// CellKey identifies a grid cell by its integer latitude/longitude indices
type CellKey struct {
	LatIndex int64 `json:"lat_index"`
	LngIndex int64 `json:"lng_index"`
}

// Less orders keys by latitude index, then longitude index
func (k CellKey) Less(o CellKey) bool {
	if k.LatIndex != o.LatIndex {
		return k.LatIndex < o.LatIndex
	}
	return k.LngIndex < o.LngIndex
}

// GridCell is a fixed-size geographic bucket holding the running mean of the
// readings that fell into it.
type GridCell struct {
	Key       CellKey `json:"key"`
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lng"`
	AvgValue  float64 `json:"avg_rci"`
	Count     int     `json:"count"` // Number of readings folded into the cell
}

// CellStyle holds the presentation attributes derived from a cell
type CellStyle struct {
	Bucket  int     `json:"bucket"` // 1-6
	Color   string  `json:"color"`
	Radius  float64 `json:"radius"`
	Opacity float64 `json:"opacity"`
}

// StyledCell is a grid cell paired with its presentation attributes
type StyledCell struct {
	GridCell
	Style CellStyle `json:"style"`
}

// BucketCount is the number of cells (or readings) that fall into one colour bucket
type BucketCount struct {
	Bucket int    `json:"bucket"`
	Label  string `json:"label"` // e.g. "1 ≤ RCI < 2"
	Color  string `json:"color"`
	Count  int    `json:"count"`
}
