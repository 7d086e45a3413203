package room

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"inn/infras/otel"
	"inn/internal/domains/room/model/dto"
	"inn/internal/domains/room/service"
	"inn/shared/constant"
	"inn/shared/validator"
	"inn/transport/http/response"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Get("/rooms/status", handler.Status)
	r.With(admin).Post("/admin/rooms/toggle", handler.Toggle)
}

// Status returns the occupancy board
// @Summary Room status
// @Description Per-room occupancy split into booked and available room numbers.
// @Tags Room
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.StatusResponse "Room status"
// @Failure 400 {object} response.Error
// @Router /api/rooms/status [get]
func (handler *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Status")
	defer scope.End()

	date := r.URL.Query().Get(constant.RequestParamDate)

	res, err := handler.service.StatusForDate(ctx, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Toggle flips a room between booked and free
// @Summary Toggle room occupancy
// @Description Book a free room or free a booked one on the occupancy board.
// @Tags Room
// @Accept json
// @Produce json
// @Param request body dto.ToggleRequest true "Toggle Request"
// @Success 200 {object} dto.ToggleResponse "Room toggled"
// @Failure 400 {object} response.Error
// @Router /api/admin/rooms/toggle [post]
// @Security BearerAuth
func (handler *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Toggle")
	defer scope.End()

	req := dto.ToggleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Toggle(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle room")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room occupancy toggled")

	response.WithJSON(w, http.StatusOK, res)
}
