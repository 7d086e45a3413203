package dto

import (
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"inn/internal/domains/booking/model"
	"inn/shared/constant"
	"inn/shared/timezone"
)

type CreateBookingRequest struct {
	Name         string                `json:"name"        validate:"required,min=2,max=100"`
	Email        string                `json:"email"       validate:"omitempty,email"`
	Phone        string                `json:"phone"       validate:"required,min=6,max=20"`
	Address      string                `json:"address"     validate:"omitempty,max=255"`
	RoomNumbers  []int                 `json:"roomNumbers" validate:"required,min=1,dive,min=1"`
	Date         string                `json:"date"        validate:"required"`
	Document     *multipart.FileHeader `json:"document"    swaggerignore:"true" validate:"omitempty,mimetypes=image/png image/jpg image/jpeg application/pdf,maxfilesize=10"`
	DocumentFile multipart.File        `json:"-"`
}

func (c *CreateBookingRequest) ToModel(documentFile string) model.Booking {
	return model.Booking{
		ID:          uuid.NewString(),
		Type:        constant.BookingTypeOnline,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		RoomNumbers: c.RoomNumbers,
		Rooms:       len(c.RoomNumbers),
		Date:        c.Date,
		Payment:     constant.PaymentPending,
		Document:    documentFile,
		CreatedAt:   timezone.Now(),
	}
}

type CreateOfflineBookingRequest struct {
	Name         string                `json:"name"        validate:"required,min=2,max=100"`
	Email        string                `json:"email"       validate:"omitempty,email"`
	Phone        string                `json:"phone"       validate:"required,min=6,max=20"`
	Address      string                `json:"address"     validate:"omitempty,max=255"`
	RoomNumbers  []int                 `json:"roomNumbers" validate:"required,min=1,dive,min=1"`
	Date         string                `json:"date"        validate:"required"`
	Payment      string                `json:"payment"     validate:"omitempty"`
	Document     *multipart.FileHeader `json:"document"    swaggerignore:"true" validate:"omitempty,mimetypes=image/png image/jpg image/jpeg application/pdf,maxfilesize=10"`
	DocumentFile multipart.File        `json:"-"`
}

func (c *CreateOfflineBookingRequest) ToModel(documentFile string) model.Booking {
	payment := c.Payment
	if payment == constant.Empty {
		payment = constant.PaymentPending
	}

	return model.Booking{
		ID:          uuid.NewString(),
		Type:        constant.BookingTypeOffline,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		RoomNumbers: c.RoomNumbers,
		Rooms:       len(c.RoomNumbers),
		Date:        c.Date,
		Payment:     payment,
		Document:    documentFile,
		CreatedAt:   timezone.Now(),
	}
}

type BookingResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone"`
	Address     string `json:"address,omitempty"`
	RoomNumbers []int  `json:"roomNumbers"`
	Rooms       int    `json:"rooms"`
	Date        string `json:"date"`
	Payment     string `json:"payment"`
	Document    string `json:"document,omitempty"`
	Receipt     string `json:"receipt,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.Type = m.Type
	r.Name = m.Name
	r.Email = m.Email
	r.Phone = m.Phone
	r.Address = m.Address
	r.RoomNumbers = m.RoomNumbers
	r.Rooms = m.Rooms
	r.Date = m.Date
	r.Payment = m.Payment
	r.Document = m.Document
	r.Receipt = m.Receipt
	r.CreatedAt = timezone.Format(m.CreatedAt, time.RFC3339)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking) {
	r.TotalData = len(models)

	r.Bookings = make([]BookingResponse, len(models))
	for i, m := range models {
		r.Bookings[i].FromModel(m)
	}
}

// AvailabilityResponse is the date-scoped aggregate view: how many rooms the
// bookings for that date consume, regardless of which room numbers they hold.
// The wire keys match the historical endpoint contract.
type AvailabilityResponse struct {
	Date           string `json:"date"`
	TotalRooms     int    `json:"total"`
	BookedRooms    int    `json:"used"`
	AvailableRooms int    `json:"available"`
}
