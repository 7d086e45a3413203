package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"inn/infras/jsonstore"
	"inn/infras/otel"
	"inn/internal/domains/booking/model"
	"inn/shared/constant"
)

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=./mocks/repository_mock.go -package=mocks

type Booking interface {
	Insert(ctx context.Context, booking model.Booking) error
	GetAll(ctx context.Context) ([]model.Booking, error)
	GetByID(ctx context.Context, id string) (model.Booking, error)
	AttachReceipt(ctx context.Context, bookingID, receiptFile string) error
	CountRoomsForDate(ctx context.Context, date string) (int, error)
}

type repositoryImpl struct {
	store jsonstore.Store
	otel  otel.Otel
}

func New(store jsonstore.Store, otel otel.Otel) Booking {
	return &repositoryImpl{
		store: store,
		otel:  otel,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	var bookings []model.Booking

	err = r.store.Update(ctx, constant.DocumentBookings, &bookings, func() error {
		bookings = append(bookings, booking)

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to insert booking")

		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetAll(ctx context.Context) (bookings []model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = r.store.Read(ctx, constant.DocumentBookings, &bookings)
	if err != nil {
		if errors.Is(err, jsonstore.ErrNotExist) {
			return []model.Booking{}, nil
		}

		if errors.Is(err, jsonstore.ErrCorrupted) {
			log.Warn().Err(err).Msg("bookings document unreadable, treating as empty")

			return []model.Booking{}, nil
		}

		log.Error().Err(err).Msg("failed to read bookings")

		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}

	return bookings, nil
}

func (r *repositoryImpl) GetByID(ctx context.Context, id string) (booking model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".GetByID")
	defer scope.End()
	defer scope.TraceIfError(err)

	bookings, err := r.GetAll(ctx)
	if err != nil {
		return booking, err
	}

	for _, b := range bookings {
		if b.ID == id {
			return b, nil
		}
	}

	return model.Booking{}, nil
}

// AttachReceipt records the generated receipt file on the booking. It runs
// inside the document lock so a concurrent insert cannot be lost, and it is a
// silent no-op when the booking has disappeared in the meantime: receipt
// generation is best-effort and must never fail the ledger.
func (r *repositoryImpl) AttachReceipt(ctx context.Context, bookingID, receiptFile string) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".AttachReceipt")
	defer scope.End()
	defer scope.TraceIfError(err)

	var bookings []model.Booking

	err = r.store.Update(ctx, constant.DocumentBookings, &bookings, func() error {
		for i := range bookings {
			if bookings[i].ID == bookingID {
				bookings[i].Receipt = receiptFile

				return nil
			}
		}

		log.Warn().Str("booking_id", bookingID).Msg("booking vanished before receipt could be attached")

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to attach receipt")

		return fmt.Errorf("failed to attach receipt: %w", err)
	}

	return nil
}

// CountRoomsForDate sums the room counts of every booking for the given date.
// This aggregate deliberately ignores which room numbers are held; the
// occupancy board is the per-room view.
func (r *repositoryImpl) CountRoomsForDate(ctx context.Context, date string) (total int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".CountRoomsForDate")
	defer scope.End()
	defer scope.TraceIfError(err)

	bookings, err := r.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	for _, b := range bookings {
		if b.Date == date {
			total += b.Rooms
		}
	}

	return total, nil
}
