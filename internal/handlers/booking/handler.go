package booking

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"inn/infras/otel"
	"inn/internal/domains/booking/model/dto"
	"inn/internal/domains/booking/service"
	"inn/shared/constant"
	"inn/shared/failure"
	"inn/shared/validator"
	"inn/transport/http/response"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Post("/bookings", handler.Create)
	r.Get("/public/booking/{id}", handler.Get)

	r.With(admin).Post("/admin/bookings/offline", handler.CreateOffline)
	r.With(admin).Get("/admin/bookings", handler.GetAll)
	r.With(admin).Get("/admin/availability", handler.Availability)
	r.With(admin).Get("/receipts/{bookingId}", handler.GetReceipt)
	r.With(admin).Post("/admin/generate-receipt/{bookingId}", handler.RegenerateReceipt)
}

// Create registers an online booking
// @Summary Create an online booking
// @Description Create a booking from the public form, optionally attaching an identity document.
// @Tags Booking
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Guest name"
// @Param email formData string false "Guest email"
// @Param phone formData string true "Guest phone"
// @Param address formData string false "Guest address"
// @Param roomNumbers formData string true "Requested room numbers as a JSON array, e.g. [3,7]"
// @Param date formData string true "Stay date (YYYY-MM-DD)"
// @Param document formData file false "Identity document"
// @Success 201 {object} dto.BookingResponse "Booking created"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/bookings [post]
func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Create")
	defer scope.End()

	req, closeDoc, err := handler.parseCreateForm(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse booking form")

		response.WithError(w, err)

		return
	}
	defer closeDoc()

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate booking form")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// CreateOffline registers a walk-in booking
// @Summary Create an offline booking
// @Description Record a walk-in booking made at the desk.
// @Tags Booking
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Guest name"
// @Param email formData string false "Guest email"
// @Param phone formData string true "Guest phone"
// @Param address formData string false "Guest address"
// @Param roomNumbers formData string true "Requested room numbers as a JSON array, e.g. [3,7]"
// @Param date formData string true "Stay date (YYYY-MM-DD)"
// @Param payment formData string false "Payment state, defaults to pending"
// @Param document formData file false "Identity document"
// @Success 201 {object} dto.BookingResponse "Booking created"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/admin/bookings/offline [post]
// @Security BearerAuth
func (handler *Handler) CreateOffline(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOffline")
	defer scope.End()

	req, closeDoc, err := handler.parseOfflineForm(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse offline booking form")

		response.WithError(w, err)

		return
	}
	defer closeDoc()

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate offline booking form")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CreateOffline(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create offline booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Offline booking created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetAll lists every booking
// @Summary List bookings
// @Description Return the full booking ledger.
// @Tags Booking
// @Produce json
// @Success 200 {object} dto.GetBookingsResponse "Bookings"
// @Failure 500 {object} response.Error
// @Router /api/admin/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAll")
	defer scope.End()

	res, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Get returns one booking by id
// @Summary Get a booking
// @Description Look up a single booking by its id. Public so guests can check their reservation.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse "Booking"
// @Failure 404 {object} response.Error
// @Router /api/public/booking/{id} [get]
func (handler *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Get")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Availability reports how many rooms remain for a date
// @Summary Booking availability for a date
// @Description Aggregate of rooms consumed by bookings on the given date against the hotel total.
// @Tags Booking
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.AvailabilityResponse "Availability"
// @Failure 400 {object} response.Error
// @Router /api/admin/availability [get]
// @Security BearerAuth
func (handler *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Availability")
	defer scope.End()

	date := r.URL.Query().Get(constant.RequestParamDate)

	res, err := handler.service.AvailabilityForDate(ctx, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetReceipt streams the receipt document
// @Summary Download a booking receipt
// @Description Stream the HTML receipt for a booking, regenerating it when missing.
// @Tags Booking
// @Produce html
// @Param bookingId path string true "Booking ID"
// @Success 200 {string} string "Receipt HTML"
// @Failure 404 {object} response.Error
// @Router /api/receipts/{bookingId} [get]
// @Security BearerAuth
func (handler *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReceipt")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamBookingID)

	rc, fileName, err := handler.service.GetReceipt(ctx, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get receipt")

		response.WithError(w, err)

		return
	}
	defer rc.Close()

	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeHTML)
	w.Header().Set(constant.RequestHeaderContentDisposition, `inline; filename="`+fileName+`"`)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		log.Error().Err(err).Msg("failed to stream receipt")
	}
}

// RegenerateReceipt rebuilds the receipt document
// @Summary Regenerate a booking receipt
// @Description Render a fresh receipt for the booking and attach it.
// @Tags Booking
// @Produce json
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse "Booking with the new receipt"
// @Failure 404 {object} response.Error
// @Router /api/admin/generate-receipt/{bookingId} [post]
// @Security BearerAuth
func (handler *Handler) RegenerateReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RegenerateReceipt")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamBookingID)

	res, err := handler.service.RegenerateReceipt(ctx, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to regenerate receipt")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Receipt regenerated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// parseCreateForm reads the multipart booking form. The room numbers arrive
// as a JSON array in a single form field. The returned closer is always safe
// to defer.
func (handler *Handler) parseCreateForm(r *http.Request) (req dto.CreateBookingRequest, closeDoc func(), err error) {
	closeDoc = func() {}

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return req, closeDoc, failure.BadRequestFromString("invalid multipart form") // nolint:wrapcheck
	}

	req.Name = r.FormValue(constant.FormFieldName)
	req.Email = r.FormValue(constant.FormFieldEmail)
	req.Phone = r.FormValue(constant.FormFieldPhone)
	req.Address = r.FormValue(constant.FormFieldAddress)
	req.Date = r.FormValue(constant.FormFieldDate)

	req.RoomNumbers, err = formRoomNumbers(r)
	if err != nil {
		return req, closeDoc, err
	}

	req.Document, req.DocumentFile, closeDoc, err = formDocument(r)
	if err != nil {
		return req, closeDoc, err
	}

	return req, closeDoc, nil
}

// parseOfflineForm reads the multipart walk-in form; same fields as the online
// form plus an optional payment state.
func (handler *Handler) parseOfflineForm(r *http.Request) (req dto.CreateOfflineBookingRequest, closeDoc func(), err error) {
	closeDoc = func() {}

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return req, closeDoc, failure.BadRequestFromString("invalid multipart form") // nolint:wrapcheck
	}

	req.Name = r.FormValue(constant.FormFieldName)
	req.Email = r.FormValue(constant.FormFieldEmail)
	req.Phone = r.FormValue(constant.FormFieldPhone)
	req.Address = r.FormValue(constant.FormFieldAddress)
	req.Date = r.FormValue(constant.FormFieldDate)
	req.Payment = r.FormValue(constant.FormFieldPayment)

	req.RoomNumbers, err = formRoomNumbers(r)
	if err != nil {
		return req, closeDoc, err
	}

	req.Document, req.DocumentFile, closeDoc, err = formDocument(r)
	if err != nil {
		return req, closeDoc, err
	}

	return req, closeDoc, nil
}

// formDocument reads the optional identity document from the form. The
// returned closer is always safe to defer.
func formDocument(r *http.Request) (*multipart.FileHeader, multipart.File, func(), error) {
	file, fileHeader, err := r.FormFile(constant.FormFieldDocument)

	switch {
	case err == nil:
		return fileHeader, file, func() { file.Close() }, nil
	case errors.Is(err, http.ErrMissingFile):
		return nil, nil, func() {}, nil
	default:
		return nil, nil, func() {}, failure.BadRequestFromString("invalid document upload") // nolint:wrapcheck
	}
}

func formRoomNumbers(r *http.Request) ([]int, error) {
	rawRooms := r.FormValue(constant.FormFieldRoomNumbers)
	if rawRooms == constant.Empty {
		return nil, failure.MissingRequiredFields // nolint:wrapcheck
	}

	var rooms []int
	if err := json.Unmarshal([]byte(rawRooms), &rooms); err != nil {
		return nil, failure.BadRequestFromString("roomNumbers must be a JSON array of integers") // nolint:wrapcheck
	}

	return rooms, nil
}
