package model

import (
	"strconv"
	"time"
)

// OccupancyEntry is one room's slot on the occupancy board. The board is a
// map keyed by the room number as a string, matching the historical
// room-occupancy.json layout.
type OccupancyEntry struct {
	Occupied   bool       `json:"occupied"`
	RoomNumber int        `json:"roomNumber"`
	BookedAt   *time.Time `json:"bookedAt,omitempty"`
	BookedBy   string     `json:"bookedBy,omitempty"`
}

// Board is the whole occupancy document.
type Board map[string]OccupancyEntry

// Key returns the board key for a room number.
func Key(roomNumber int) string {
	return strconv.Itoa(roomNumber)
}
