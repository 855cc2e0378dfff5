package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// ConflictResponse carries the rejection reason plus the identifier of
// the existing booking that blocked the request, when one is known.
type ConflictResponse struct {
	Error           string `json:"error" example:"room is already booked from 09:00 to 10:00"`
	ConflictingID   int    `json:"conflicting_id,omitempty" example:"42"`
	ConflictingKind string `json:"conflicting_kind,omitempty" example:"room_booking"`
}
