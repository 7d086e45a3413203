package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"inn/config"
	filesMocks "inn/infras/files/mocks"
	mailerMocks "inn/infras/mailer/mocks"
	"inn/infras/otel/mocks"
	"inn/internal/domains/booking/model"
	"inn/internal/domains/booking/model/dto"
	repoMocks "inn/internal/domains/booking/repository/mocks"
	"inn/internal/domains/booking/service"
	receiptMocks "inn/internal/domains/receipt/service/mocks"
	cacheMocks "inn/shared/cache/mocks"
)

var errCacheMiss = errors.New("cache miss")

type serviceMocks struct {
	repo    *repoMocks.MockBooking
	cache   *cacheMocks.MockRedisCache
	storage *filesMocks.MockStorage
	receipt *receiptMocks.MockReceipt
	mailer  *mailerMocks.MockMailer
}

func newService(t *testing.T, cfg *config.Config) (service.Booking, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		repo:    repoMocks.NewMockBooking(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
		storage: filesMocks.NewMockStorage(ctrl),
		receipt: receiptMocks.NewMockReceipt(ctrl),
		mailer:  mailerMocks.NewMockMailer(ctrl),
	}

	svc := service.New(m.repo, cfg, m.cache, mocks.NewOtel(), m.storage, m.receipt, m.mailer)

	return svc, m
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "Inn"
	cfg.Hotel.TotalRooms = 30
	cfg.Storage.UploadDir = "uploads"
	cfg.Storage.ReceiptDir = "receipts"

	return cfg
}

func TestBookingService_Create(t *testing.T) {
	svc, m := newService(t, testConfig())

	req := dto.CreateBookingRequest{
		Name:        "Jordan Blake",
		Email:       "jordan@example.com",
		Phone:       "08123456789",
		RoomNumbers: []int{3, 7},
		Date:        "2026-09-10",
	}

	var inserted model.Booking

	m.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b model.Booking) error {
			inserted = b
			return nil
		})

	// Receipt generation, notification and cache invalidation run after the
	// request returns; the channel drains once every async call has landed.
	cleared := make(chan struct{}, 2)

	m.receipt.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("123-receipt.html", nil)
	m.repo.EXPECT().
		AttachReceipt(gomock.Any(), gomock.Any(), "123-receipt.html").
		Return(nil)
	m.mailer.EXPECT().
		Send(gomock.Any(), "jordan@example.com", "Jordan Blake", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	// Attaching the receipt must evict the per-booking cache entry, or a copy
	// cached between insert and attach would stay receipt-less until TTL.
	var deletedKey string

	m.cache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			deletedKey = key
			return nil
		})
	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string) error {
			cleared <- struct{}{}
			return nil
		}).
		Times(2)

	res, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		select {
		case <-cleared:
		case <-time.After(2 * time.Second):
			t.Fatal("booking caches were never invalidated")
		}
	}

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "online", res.Type)
	assert.Equal(t, 2, res.Rooms)
	assert.Equal(t, "pending", res.Payment)
	assert.Equal(t, inserted.ID, res.ID)
	assert.Equal(t, []int{3, 7}, inserted.RoomNumbers)
	assert.Equal(t, "booking:get:"+inserted.ID, deletedKey)
}

func TestBookingService_CreateInvalidDate(t *testing.T) {
	svc, _ := newService(t, testConfig())

	_, err := svc.Create(context.Background(), dto.CreateBookingRequest{
		Name:        "Jordan Blake",
		Email:       "jordan@example.com",
		Phone:       "08123456789",
		RoomNumbers: []int{1},
		Date:        "10-09-2026",
	})
	assert.Error(t, err)
}

func TestBookingService_CreateRoomNumberOutOfRange(t *testing.T) {
	svc, _ := newService(t, testConfig())

	_, err := svc.Create(context.Background(), dto.CreateBookingRequest{
		Name:        "Jordan Blake",
		Phone:       "08123456789",
		RoomNumbers: []int{3, 31},
		Date:        "2026-09-10",
	})
	assert.Error(t, err)

	_, err = svc.CreateOffline(context.Background(), dto.CreateOfflineBookingRequest{
		Name:        "Walk In",
		Phone:       "08123456789",
		RoomNumbers: []int{0},
		Date:        "2026-09-10",
	})
	assert.Error(t, err)
}

func TestBookingService_CreateOffline(t *testing.T) {
	svc, m := newService(t, testConfig())

	cleared := make(chan struct{}, 2)

	m.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		Return(nil)
	m.receipt.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("456-receipt.html", nil)
	m.repo.EXPECT().
		AttachReceipt(gomock.Any(), gomock.Any(), "456-receipt.html").
		Return(nil)
	m.cache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil)
	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string) error {
			cleared <- struct{}{}
			return nil
		}).
		Times(2)

	// No email on the walk-in booking, so no notification is expected.
	res, err := svc.CreateOffline(context.Background(), dto.CreateOfflineBookingRequest{
		Name:        "Walk In",
		Phone:       "08123456789",
		RoomNumbers: []int{12},
		Date:        "2026-09-10",
		Payment:     "paid",
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		select {
		case <-cleared:
		case <-time.After(2 * time.Second):
			t.Fatal("booking caches were never invalidated")
		}
	}

	assert.Equal(t, "offline", res.Type)
	assert.Equal(t, "paid", res.Payment)
}

func TestBookingService_CreateOfflineWithDocument(t *testing.T) {
	svc, m := newService(t, testConfig())

	docPath := filepath.Join(t.TempDir(), "passport.png")
	require.NoError(t, os.WriteFile(docPath, []byte("png-bytes"), 0o644))

	doc, err := os.Open(docPath)
	require.NoError(t, err)
	t.Cleanup(func() { doc.Close() })

	header := &multipart.FileHeader{
		Filename: "passport.png",
		Header:   textproto.MIMEHeader{"Content-Type": []string{"image/png"}},
	}

	var savedName string

	m.storage.EXPECT().
		Save(gomock.Any(), "uploads", gomock.Any(), "image/png", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, name, _ string, _ io.Reader) error {
			savedName = name
			return nil
		})

	var inserted model.Booking

	m.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b model.Booking) error {
			inserted = b
			return nil
		})

	cleared := make(chan struct{}, 2)

	m.receipt.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("789-receipt.html", nil)
	m.repo.EXPECT().
		AttachReceipt(gomock.Any(), gomock.Any(), "789-receipt.html").
		Return(nil)
	m.cache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil)
	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string) error {
			cleared <- struct{}{}
			return nil
		}).
		Times(2)

	res, err := svc.CreateOffline(context.Background(), dto.CreateOfflineBookingRequest{
		Name:         "Walk In",
		Phone:        "08123456789",
		RoomNumbers:  []int{8},
		Date:         "2026-09-11",
		Document:     header,
		DocumentFile: doc,
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		select {
		case <-cleared:
		case <-time.After(2 * time.Second):
			t.Fatal("booking caches were never invalidated")
		}
	}

	assert.Regexp(t, `^\d+-[0-9a-f-]{36}\.png$`, savedName)
	assert.Equal(t, savedName, inserted.Document)
	assert.Equal(t, savedName, res.Document)
}

func TestBookingService_Get(t *testing.T) {
	svc, m := newService(t, testConfig())

	stored := model.Booking{
		ID:          "b-1",
		Type:        "online",
		Name:        "Jordan Blake",
		RoomNumbers: []int{3},
		Rooms:       1,
		Date:        "2026-09-10",
		Payment:     "pending",
	}

	t.Run("found", func(t *testing.T) {
		saved := make(chan struct{})

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errCacheMiss)
		m.repo.EXPECT().
			GetByID(gomock.Any(), "b-1").
			Return(stored, nil)
		m.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ any, _ int) error {
				close(saved)
				return nil
			})

		res, err := svc.Get(context.Background(), "b-1")
		require.NoError(t, err)
		assert.Equal(t, "b-1", res.ID)

		<-saved
	})

	t.Run("not found", func(t *testing.T) {
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errCacheMiss)
		m.repo.EXPECT().
			GetByID(gomock.Any(), "missing").
			Return(model.Booking{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Error(t, err)
	})
}

func TestBookingService_AvailabilityForDate(t *testing.T) {
	svc, m := newService(t, testConfig())

	t.Run("aggregates booked rooms against the total", func(t *testing.T) {
		saved := make(chan struct{})

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errCacheMiss)
		m.repo.EXPECT().
			CountRoomsForDate(gomock.Any(), "2026-09-10").
			Return(12, nil)
		m.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ any, _ int) error {
				close(saved)
				return nil
			})

		res, err := svc.AvailabilityForDate(context.Background(), "2026-09-10")
		require.NoError(t, err)
		assert.Equal(t, 30, res.TotalRooms)
		assert.Equal(t, 12, res.BookedRooms)
		assert.Equal(t, 18, res.AvailableRooms)

		// Wire keys are part of the endpoint contract.
		raw, err := json.Marshal(res)
		require.NoError(t, err)
		assert.JSONEq(t, `{"date":"2026-09-10","total":30,"used":12,"available":18}`, string(raw))

		<-saved
	})

	t.Run("overbooked date clamps to zero", func(t *testing.T) {
		saved := make(chan struct{})

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errCacheMiss)
		m.repo.EXPECT().
			CountRoomsForDate(gomock.Any(), "2026-12-31").
			Return(45, nil)
		m.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ any, _ int) error {
				close(saved)
				return nil
			})

		res, err := svc.AvailabilityForDate(context.Background(), "2026-12-31")
		require.NoError(t, err)
		assert.Equal(t, 45, res.BookedRooms)
		assert.Equal(t, 0, res.AvailableRooms)

		<-saved
	})

	t.Run("missing date is rejected", func(t *testing.T) {
		_, err := svc.AvailabilityForDate(context.Background(), "")
		assert.Error(t, err)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		_, err := svc.AvailabilityForDate(context.Background(), "tomorrow")
		assert.Error(t, err)
	})
}

func TestBookingService_GetReceipt(t *testing.T) {
	svc, m := newService(t, testConfig())

	t.Run("existing receipt is served", func(t *testing.T) {
		stored := model.Booking{ID: "b-1", Name: "Jordan", Receipt: "123-r.html"}

		m.repo.EXPECT().
			GetByID(gomock.Any(), "b-1").
			Return(stored, nil)
		m.receipt.EXPECT().
			Exists(gomock.Any(), "123-r.html").
			Return(true)
		m.receipt.EXPECT().
			Open(gomock.Any(), "123-r.html").
			Return(io.NopCloser(strings.NewReader("<html>receipt</html>")), nil)

		rc, fileName, err := svc.GetReceipt(context.Background(), "b-1")
		require.NoError(t, err)
		defer rc.Close()

		assert.Equal(t, "123-r.html", fileName)
	})

	t.Run("missing receipt file is regenerated", func(t *testing.T) {
		stored := model.Booking{ID: "b-2", Name: "Jordan"}

		m.repo.EXPECT().
			GetByID(gomock.Any(), "b-2").
			Return(stored, nil)
		m.receipt.EXPECT().
			Generate(gomock.Any(), stored).
			Return("999-r.html", nil)
		m.repo.EXPECT().
			AttachReceipt(gomock.Any(), "b-2", "999-r.html").
			Return(nil)
		m.receipt.EXPECT().
			Open(gomock.Any(), "999-r.html").
			Return(io.NopCloser(strings.NewReader("<html>receipt</html>")), nil)

		rc, fileName, err := svc.GetReceipt(context.Background(), "b-2")
		require.NoError(t, err)
		defer rc.Close()

		assert.Equal(t, "999-r.html", fileName)
	})

	t.Run("unknown booking", func(t *testing.T) {
		m.repo.EXPECT().
			GetByID(gomock.Any(), "nope").
			Return(model.Booking{}, nil)

		_, _, err := svc.GetReceipt(context.Background(), "nope")
		assert.Error(t, err)
	})
}

func TestBookingService_RegenerateReceipt(t *testing.T) {
	svc, m := newService(t, testConfig())

	stored := model.Booking{ID: "b-1", Name: "Jordan", Receipt: "old.html"}

	m.repo.EXPECT().
		GetByID(gomock.Any(), "b-1").
		Return(stored, nil)
	m.receipt.EXPECT().
		Generate(gomock.Any(), stored).
		Return("new.html", nil)
	m.repo.EXPECT().
		AttachReceipt(gomock.Any(), "b-1", "new.html").
		Return(nil)

	deleted := make(chan struct{})
	cleared := make(chan struct{})

	m.cache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string) error {
			close(deleted)
			return nil
		})
	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string) error {
			close(cleared)
			return nil
		})

	res, err := svc.RegenerateReceipt(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, "new.html", res.Receipt)

	<-deleted
	<-cleared
}
