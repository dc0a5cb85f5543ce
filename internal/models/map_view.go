package models

// MapView is the renderer-facing result of one aggregation pass
type MapView struct {
	Cells        []StyledCell  `json:"cells"`
	Buckets      []BucketCount `json:"buckets"`
	Summary      ValueSummary  `json:"summary"` // Over cell averages
	Viewport     *Viewport     `json:"viewport,omitempty"`
	CellSize     float64       `json:"cell_size"`
	MinReadings  int           `json:"min_readings"`
	TotalCells   int           `json:"total_cells"`   // Before the minReadings filter
	ReadingCount int           `json:"reading_count"` // Readings folded into cells
}

// PointView is the raw-reading map view without grid aggregation
type PointView struct {
	Readings []Reading     `json:"readings"`
	Buckets  []BucketCount `json:"buckets"`
	Summary  ValueSummary  `json:"summary"`
	Viewport *Viewport     `json:"viewport,omitempty"`
}

// ValueSummary describes the distribution of RCI values in a view
type ValueSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // Sample standard deviation
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}
