package models

// MapFilter represents query parameters for the aggregated map view
type MapFilter struct {
	CellSize    float64 `form:"cellSize"`    // Meters, default 100
	MinReadings int     `form:"minReadings"` // Minimum readings per cell, default 1
	Focus       bool    `form:"focus"`       // Center on the highest-RCI cell instead of fitting all cells
}
