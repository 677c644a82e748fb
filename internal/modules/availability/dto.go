package availability

// AddRequest describes one availability window. Times are HH:MM and the
// window covers [start_time, end_time).
type AddRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=available unavailable booked"`
}
