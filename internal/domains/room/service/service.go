package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"inn/config"
	"inn/infras/otel"
	"inn/internal/domains/room/model/dto"
	"inn/internal/domains/room/repository"
	"inn/shared"
	"inn/shared/cache"
	"inn/shared/constant"
	"inn/shared/failure"
	"inn/shared/timezone"
)

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

const (
	cacheRoomStatus = "room:status"
)

type Room interface {
	Toggle(ctx context.Context, req dto.ToggleRequest) (dto.ToggleResponse, error)
	StatusForDate(ctx context.Context, date string) (dto.StatusResponse, error)
}

type serviceImpl struct {
	repo  repository.Room
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Room {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Toggle(ctx context.Context, req dto.ToggleRequest) (res dto.ToggleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Toggle")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.RoomNumber < 1 || req.RoomNumber > s.cfg.Hotel.TotalRooms {
		return res, failure.BadRequestFromString(
			fmt.Sprintf("room number must be between 1 and %d", s.cfg.Hotel.TotalRooms),
		) // nolint:wrapcheck
	}

	bookedBy := req.BookedBy
	if bookedBy == constant.Empty {
		if username, ok := ctx.Value(constant.ContextKeyUsername).(string); ok {
			bookedBy = username
		}
	}

	entry, err := s.repo.Toggle(ctx, req.RoomNumber, bookedBy)
	if err != nil {
		log.Error().Err(err).Int("room", req.RoomNumber).Msg("failed to toggle room")

		return res, fmt.Errorf("failed to toggle room: %w", err)
	}

	res.FromEntry(entry)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheRoomStatus)
	}()

	return res, nil
}

// StatusForDate returns the occupancy board split into booked and free room
// numbers. The board is date-insensitive: the same response comes back for
// every date, and the parameter is only validated and echoed. This is a
// separate notion from the booking availability aggregate and the two are
// never reconciled.
func (s *serviceImpl) StatusForDate(ctx context.Context, date string) (res dto.StatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".StatusForDate")
	defer scope.End()
	defer scope.TraceIfError(err)

	if date == constant.Empty {
		return res, failure.InvalidDateParam // nolint:wrapcheck
	}

	if _, err := timezone.Parse(constant.DateFormat, date); err != nil {
		return res, failure.InvalidDateParam // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheRoomStatus, date)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room status")

		return res, nil
	}

	booked, err := s.repo.OccupiedRooms(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to read occupied rooms")

		return res, fmt.Errorf("failed to read occupied rooms: %w", err)
	}

	total := s.cfg.Hotel.TotalRooms

	occupied := make(map[int]bool, len(booked))
	for _, n := range booked {
		occupied[n] = true
	}

	available := make([]int, 0, total)
	for n := 1; n <= total; n++ {
		if !occupied[n] {
			available = append(available, n)
		}
	}

	res = dto.StatusResponse{
		Date:           date,
		TotalRooms:     total,
		BookedRooms:    booked,
		AvailableRooms: available,
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room status to cache")
		}
	}()

	return res, nil
}
