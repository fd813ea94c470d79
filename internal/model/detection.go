package model

// Detection represents one puck reported by the device, in source coordinates.
type Detection struct {
	ID         int64   `json:"id,omitempty"`
	BatchID    int64   `json:"batch_id,omitempty"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}
