package models

// Response contracts for the HTTP surface. Every payload carries a
// human-readable message; error payloads add the underlying detail.

type EventResponse struct {
	Message string `json:"message"`
	Event   *Event `json:"event"`
}

type EventsResponse struct {
	Message string   `json:"message"`
	Events  []*Event `json:"events"`
}

type CountResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

type BookingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func NewErrorResponse(message, detail string) ErrorResponse {
	return ErrorResponse{
		Message: message,
		Error:   detail,
	}
}
