package service_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inn/config"
	"inn/infras/files"
	"inn/infras/otel/mocks"
	bookingModel "inn/internal/domains/booking/model"
	"inn/internal/domains/receipt/service"
	"inn/shared/timezone"
)

func TestReceiptService_GenerateAndOpen(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "Inn"
	cfg.Storage.FileDriver = files.DriverLocal
	cfg.Storage.ReceiptDir = t.TempDir()

	svc := service.New(cfg, files.New(cfg, nil), mocks.NewOtel())

	booking := bookingModel.Booking{
		ID:          "b-123",
		Type:        "online",
		Name:        "Jordan Blake",
		Email:       "jordan@example.com",
		Phone:       "08123456789",
		RoomNumbers: []int{3, 7},
		Rooms:       2,
		Date:        "2026-09-10",
		Payment:     "pending",
		CreatedAt:   timezone.Now(),
	}

	fileName, err := svc.Generate(context.Background(), booking)
	require.NoError(t, err)
	assert.Regexp(t, `^\d+-[0-9a-f-]{36}\.html$`, fileName)
	assert.True(t, svc.Exists(context.Background(), fileName))

	rc, err := svc.Open(context.Background(), fileName)
	require.NoError(t, err)
	defer rc.Close()

	html, err := io.ReadAll(rc)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "b-123")
	assert.Contains(t, body, "Jordan Blake")
	assert.Contains(t, body, "2026-09-10")
	assert.Contains(t, body, "3, 7")
}

func TestReceiptService_OpenMissing(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.FileDriver = files.DriverLocal
	cfg.Storage.ReceiptDir = t.TempDir()

	svc := service.New(cfg, files.New(cfg, nil), mocks.NewOtel())

	_, err := svc.Open(context.Background(), "nope.html")
	assert.Error(t, err)
	assert.False(t, svc.Exists(context.Background(), "nope.html"))
}
