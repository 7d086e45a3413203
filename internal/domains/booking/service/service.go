package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"inn/config"
	"inn/infras/files"
	"inn/infras/mailer"
	"inn/infras/otel"
	"inn/internal/domains/booking/model"
	"inn/internal/domains/booking/model/dto"
	"inn/internal/domains/booking/repository"
	receiptService "inn/internal/domains/receipt/service"
	"inn/shared"
	"inn/shared/cache"
	"inn/shared/constant"
	"inn/shared/failure"
	"inn/shared/timezone"
)

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheAvailability  = "booking:availability"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	CreateOffline(ctx context.Context, req dto.CreateOfflineBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	AvailabilityForDate(ctx context.Context, date string) (dto.AvailabilityResponse, error)
	GetReceipt(ctx context.Context, bookingID string) (io.ReadCloser, string, error)
	RegenerateReceipt(ctx context.Context, bookingID string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo    repository.Booking
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
	storage files.Storage
	receipt receiptService.Receipt
	mailer  mailer.Mailer
}

func New(
	repo repository.Booking,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	storage files.Storage,
	receipt receiptService.Receipt,
	mailer mailer.Mailer,
) Booking {
	return &serviceImpl{
		repo:    repo,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
		storage: storage,
		receipt: receipt,
		mailer:  mailer,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err := timezone.Parse(constant.DateFormat, req.Date); err != nil {
		return res, failure.BadRequestFromString("invalid date, expected YYYY-MM-DD") // nolint:wrapcheck
	}

	if err := s.validateRoomNumbers(req.RoomNumbers); err != nil {
		return res, err
	}

	documentFile := constant.Empty

	if req.Document != nil && req.DocumentFile != nil {
		documentFile, err = s.saveDocument(ctx, req.Document, req.DocumentFile)
		if err != nil {
			return res, err
		}
	}

	booking := req.ToModel(documentFile)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.finalizeReceipt(c, booking)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheAvailability)
	}()

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) CreateOffline(ctx context.Context, req dto.CreateOfflineBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateOffline")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err := timezone.Parse(constant.DateFormat, req.Date); err != nil {
		return res, failure.BadRequestFromString("invalid date, expected YYYY-MM-DD") // nolint:wrapcheck
	}

	if err := s.validateRoomNumbers(req.RoomNumbers); err != nil {
		return res, err
	}

	documentFile := constant.Empty

	if req.Document != nil && req.DocumentFile != nil {
		documentFile, err = s.saveDocument(ctx, req.Document, req.DocumentFile)
		if err != nil {
			return res, err
		}
	}

	booking := req.ToModel(documentFile)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create offline booking")

		return res, fmt.Errorf("failed to create offline booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.finalizeReceipt(c, booking)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheAvailability)
	}()

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAllBooking)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	bookings, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// AvailabilityForDate reports the date-scoped aggregate: rooms consumed by
// bookings on that date against the configured total. It is a different
// question from the occupancy board, which tracks per-room state without
// regard to dates, and the two are intentionally not reconciled.
func (s *serviceImpl) AvailabilityForDate(ctx context.Context, date string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AvailabilityForDate")
	defer scope.End()
	defer scope.TraceIfError(err)

	if date == constant.Empty {
		return res, failure.InvalidDateParam // nolint:wrapcheck
	}

	if _, err := timezone.Parse(constant.DateFormat, date); err != nil {
		return res, failure.InvalidDateParam // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheAvailability, date)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability")

		return res, nil
	}

	used, err := s.repo.CountRoomsForDate(ctx, date)
	if err != nil {
		log.Error().Err(err).Msg("failed to count booked rooms")

		return res, fmt.Errorf("failed to count booked rooms: %w", err)
	}

	total := s.cfg.Hotel.TotalRooms

	available := total - used
	if available < 0 {
		available = 0
	}

	res = dto.AvailabilityResponse{
		Date:           date,
		TotalRooms:     total,
		BookedRooms:    used,
		AvailableRooms: available,
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save availability to cache")
		}
	}()

	return res, nil
}

// GetReceipt returns the receipt document for a booking, regenerating it on
// the spot when the file was never produced or has gone missing.
func (s *serviceImpl) GetReceipt(ctx context.Context, bookingID string) (rc io.ReadCloser, fileName string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetReceipt")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return nil, constant.Empty, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return nil, constant.Empty, failure.NotFound("booking") // nolint:wrapcheck
	}

	fileName = booking.Receipt

	if fileName == constant.Empty || !s.receipt.Exists(ctx, fileName) {
		fileName, err = s.regenerate(ctx, booking)
		if err != nil {
			return nil, constant.Empty, err
		}
	}

	rc, err = s.receipt.Open(ctx, fileName)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to open receipt")

		return nil, constant.Empty, fmt.Errorf("failed to open receipt: %w", err)
	}

	return rc, fileName, nil
}

func (s *serviceImpl) RegenerateReceipt(ctx context.Context, bookingID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RegenerateReceipt")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking") // nolint:wrapcheck
	}

	fileName, err := s.regenerate(ctx, booking)
	if err != nil {
		return res, err
	}

	booking.Receipt = fileName
	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, bookingID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	}()

	return res, nil
}

func (s *serviceImpl) regenerate(ctx context.Context, booking model.Booking) (string, error) {
	fileName, err := s.receipt.Generate(ctx, booking)
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to generate receipt")

		return constant.Empty, fmt.Errorf("failed to generate receipt: %w", err)
	}

	if err := s.repo.AttachReceipt(ctx, booking.ID, fileName); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to attach receipt")

		return constant.Empty, fmt.Errorf("failed to attach receipt: %w", err)
	}

	return fileName, nil
}

// finalizeReceipt runs after the booking is persisted: render the receipt,
// record it on the booking, and notify the guest. Every step is best-effort;
// a failure here is logged and never surfaces to the request that created
// the booking.
func (s *serviceImpl) finalizeReceipt(ctx context.Context, booking model.Booking) {
	fileName, err := s.receipt.Generate(ctx, booking)
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to generate receipt")

		return
	}

	if err := s.repo.AttachReceipt(ctx, booking.ID, fileName); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to attach receipt")

		return
	}

	// The booking may have been fetched and cached without its receipt between
	// insert and attach; drop that copy so the next read sees the reference.
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to delete booking from cache")
	}

	if booking.Email == constant.Empty {
		return
	}

	subject := fmt.Sprintf("Your booking confirmation (%s)", booking.ID)
	text := fmt.Sprintf(
		"Hi %s,\n\nYour booking for %s on %s is confirmed. Rooms: %d. Payment: %s.\n\nYour receipt is available from the booking desk.",
		booking.Name, s.cfg.App.Name, booking.Date, booking.Rooms, booking.Payment,
	)

	if err := s.mailer.Send(ctx, booking.Email, booking.Name, subject, text, constant.Empty); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to send booking confirmation")
	}
}

func (s *serviceImpl) validateRoomNumbers(roomNumbers []int) error {
	for _, n := range roomNumbers {
		if n < 1 || n > s.cfg.Hotel.TotalRooms {
			return failure.BadRequestFromString(
				fmt.Sprintf("room numbers must be between 1 and %d", s.cfg.Hotel.TotalRooms),
			) // nolint:wrapcheck
		}
	}

	return nil
}

func (s *serviceImpl) saveDocument(ctx context.Context, header *multipart.FileHeader, file multipart.File) (string, error) {
	ext := filepath.Ext(header.Filename)
	fileName := fmt.Sprintf("%d-%s%s", timezone.Now().UnixMilli(), uuid.NewString(), ext)
	contentType := header.Header.Get(constant.RequestHeaderContentType)

	if err := s.storage.Save(ctx, s.cfg.Storage.UploadDir, fileName, contentType, file); err != nil {
		log.Error().Err(err).Msg("failed to store booking document")

		return constant.Empty, fmt.Errorf("failed to store booking document: %w", err)
	}

	return fileName, nil
}
