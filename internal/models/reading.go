package models

// Reading is one Ride Comfort Index measurement at a coordinate.
// The JSON field names follow the RCI calculator's map-data feed.
type Reading struct {
	Value     float64 `json:"Ride_Comfort_Index"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StoredReading is a reading persisted in the local reading store
type StoredReading struct {
	ID        int64   `json:"id" db:"id"`
	UploadID  string  `json:"upload_id" db:"upload_id"`
	Value     float64 `json:"Ride_Comfort_Index" db:"rci"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	CreatedAt string  `json:"created_at,omitempty" db:"created_at"`
}

// UploadResult describes a processed reading upload
type UploadResult struct {
	UploadID string `json:"upload_id"`
	FileName string `json:"file_name"`
	Stored   int    `json:"stored"`
	Skipped  int    `json:"skipped"`
	Total    int64  `json:"total"` // Readings in the store after this upload
}
