package model

import "time"

// Booking is the persisted reservation record. Field names mirror the
// historical bookings.json layout, so existing data files stay readable.
type Booking struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address,omitempty"`
	RoomNumbers []int     `json:"roomNumbers"`
	Rooms       int       `json:"rooms"`
	Date        string    `json:"date"`
	Payment     string    `json:"payment"`
	Document    string    `json:"document,omitempty"`
	Receipt     string    `json:"receipt,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
