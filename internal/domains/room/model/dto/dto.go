package dto

import (
	"time"

	"inn/internal/domains/room/model"
	"inn/shared/timezone"
)

const (
	ActionBooked   = "booked"
	ActionUnbooked = "unbooked"
)

type ToggleRequest struct {
	RoomNumber int    `json:"roomNumber" validate:"required,min=1"`
	BookedBy   string `json:"bookedBy"   validate:"omitempty,max=100"`
}

type ToggleResponse struct {
	RoomNumber int    `json:"roomNumber"`
	Action     string `json:"action"`
	Occupied   bool   `json:"occupied"`
	BookedAt   string `json:"bookedAt,omitempty"`
	BookedBy   string `json:"bookedBy,omitempty"`
}

func (r *ToggleResponse) FromEntry(entry model.OccupancyEntry) {
	r.RoomNumber = entry.RoomNumber
	r.Occupied = entry.Occupied
	r.BookedBy = entry.BookedBy

	if entry.Occupied {
		r.Action = ActionBooked
	} else {
		r.Action = ActionUnbooked
	}

	if entry.BookedAt != nil {
		r.BookedAt = timezone.Format(*entry.BookedAt, time.RFC3339)
	}
}

// StatusResponse is the per-room view of the hotel: which room numbers are
// held and which are free. Unlike the booking availability aggregate it does
// not consider dates at all; the date is echoed back solely because the
// endpoint accepts one.
type StatusResponse struct {
	Date           string `json:"date"`
	TotalRooms     int    `json:"total"`
	BookedRooms    []int  `json:"bookedRooms"`
	AvailableRooms []int  `json:"availableRooms"`
}
