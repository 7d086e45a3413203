package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"inn/infras/jsonstore"
	"inn/infras/otel"
	"inn/internal/domains/room/model"
	"inn/shared/constant"
	"inn/shared/timezone"
)

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=./mocks/repository_mock.go -package=mocks

type Room interface {
	Board(ctx context.Context) (model.Board, error)
	OccupiedRooms(ctx context.Context) ([]int, error)
	Toggle(ctx context.Context, roomNumber int, bookedBy string) (model.OccupancyEntry, error)
}

type repositoryImpl struct {
	store jsonstore.Store
	otel  otel.Otel
}

func New(store jsonstore.Store, otel otel.Otel) Room {
	return &repositoryImpl{
		store: store,
		otel:  otel,
	}
}

func (r *repositoryImpl) Board(ctx context.Context) (board model.Board, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Board")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = r.store.Read(ctx, constant.DocumentOccupancy, &board)
	if err != nil {
		if errors.Is(err, jsonstore.ErrNotExist) {
			return model.Board{}, nil
		}

		if errors.Is(err, jsonstore.ErrCorrupted) {
			log.Warn().Err(err).Msg("occupancy document unreadable, treating as empty")

			return model.Board{}, nil
		}

		log.Error().Err(err).Msg("failed to read occupancy board")

		return nil, fmt.Errorf("failed to read occupancy board: %w", err)
	}

	if board == nil {
		board = model.Board{}
	}

	return board, nil
}

func (r *repositoryImpl) OccupiedRooms(ctx context.Context) (rooms []int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".OccupiedRooms")
	defer scope.End()
	defer scope.TraceIfError(err)

	board, err := r.Board(ctx)
	if err != nil {
		return nil, err
	}

	rooms = make([]int, 0, len(board))

	for _, entry := range board {
		if entry.Occupied {
			rooms = append(rooms, entry.RoomNumber)
		}
	}

	sort.Ints(rooms)

	return rooms, nil
}

// Toggle flips the room between occupied and free under the document lock.
// Presence on the board means occupied: booking a room writes a stamped entry,
// freeing it removes the entry entirely.
func (r *repositoryImpl) Toggle(ctx context.Context, roomNumber int, bookedBy string) (entry model.OccupancyEntry, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Toggle")
	defer scope.End()
	defer scope.TraceIfError(err)

	var board model.Board

	err = r.store.Update(ctx, constant.DocumentOccupancy, &board, func() error {
		if board == nil {
			board = model.Board{}
		}

		key := model.Key(roomNumber)
		current := board[key]

		if current.Occupied {
			entry = model.OccupancyEntry{
				Occupied:   false,
				RoomNumber: roomNumber,
			}

			delete(board, key)

			return nil
		}

		now := timezone.Now()
		entry = model.OccupancyEntry{
			Occupied:   true,
			RoomNumber: roomNumber,
			BookedAt:   &now,
			BookedBy:   bookedBy,
		}

		board[key] = entry

		return nil
	})
	if err != nil {
		log.Error().Err(err).Int("room", roomNumber).Msg("failed to toggle room occupancy")

		return entry, fmt.Errorf("failed to toggle room occupancy: %w", err)
	}

	return entry, nil
}
