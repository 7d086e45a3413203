package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inn/infras/jsonstore"
	"inn/infras/otel/mocks"
	"inn/internal/domains/booking/model"
	"inn/internal/domains/booking/repository"
	"inn/shared/timezone"
)

func newRepo(t *testing.T) (repository.Booking, string) {
	t.Helper()

	dir := t.TempDir()
	store := jsonstore.NewAtDir(dir, mocks.NewOtel())

	return repository.New(store, mocks.NewOtel()), dir
}

func booking(id, date string, rooms ...int) model.Booking {
	return model.Booking{
		ID:          id,
		Type:        "online",
		Name:        "Guest " + id,
		Phone:       "0812345",
		RoomNumbers: rooms,
		Rooms:       len(rooms),
		Date:        date,
		Payment:     "pending",
		CreatedAt:   timezone.Now(),
	}
}

func TestBookingRepository_InsertAndGet(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, booking("a", "2026-09-10", 1)))
	require.NoError(t, repo.Insert(ctx, booking("b", "2026-09-11", 2, 3)))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	got, err := repo.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, got.RoomNumbers)

	missing, err := repo.GetByID(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, missing.ID)
}

func TestBookingRepository_EmptyWhenAbsent(t *testing.T) {
	repo, _ := newRepo(t)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBookingRepository_EmptyWhenCorrupted(t *testing.T) {
	repo, dir := newRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bookings.json"), []byte("[{broken"), 0o644))

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBookingRepository_AttachReceipt(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, booking("a", "2026-09-10", 1)))

	require.NoError(t, repo.AttachReceipt(ctx, "a", "123-r.html"))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "123-r.html", got.Receipt)

	// Attaching to a booking that no longer exists must not error.
	require.NoError(t, repo.AttachReceipt(ctx, "gone", "456-r.html"))
}

func TestBookingRepository_CountRoomsForDate(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, booking("a", "2026-09-10", 1)))
	require.NoError(t, repo.Insert(ctx, booking("b", "2026-09-10", 2, 3)))
	require.NoError(t, repo.Insert(ctx, booking("c", "2026-09-11", 4)))

	n, err := repo.CountRoomsForDate(ctx, "2026-09-10")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.CountRoomsForDate(ctx, "2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
