package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"inn/config"
	"inn/infras/files"
	"inn/infras/otel"
	bookingModel "inn/internal/domains/booking/model"
	"inn/shared/constant"
	"inn/shared/timezone"
)

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

// Receipt renders booking receipts to HTML files and serves them back.
type Receipt interface {
	Generate(ctx context.Context, booking bookingModel.Booking) (string, error)
	Open(ctx context.Context, fileName string) (io.ReadCloser, error)
	Exists(ctx context.Context, fileName string) bool
}

type serviceImpl struct {
	cfg     *config.Config
	storage files.Storage
	otel    otel.Otel
	tmpl    *template.Template
}

func New(cfg *config.Config, storage files.Storage, otel otel.Otel) Receipt {
	return &serviceImpl{
		cfg:     cfg,
		storage: storage,
		otel:    otel,
		tmpl:    template.Must(template.New("receipt").Parse(receiptTemplate)),
	}
}

// Generate renders the booking into an HTML receipt and stores it under a
// fresh unix-millis plus uuid file name, returning that name.
func (s *serviceImpl) Generate(ctx context.Context, booking bookingModel.Booking) (fileName string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Generate")
	defer scope.End()
	defer scope.TraceIfError(err)

	var buf bytes.Buffer

	data := receiptData{
		Hotel:       s.cfg.App.Name,
		ID:          booking.ID,
		Type:        booking.Type,
		Name:        booking.Name,
		Email:       booking.Email,
		Phone:       booking.Phone,
		Address:     booking.Address,
		RoomNumbers: booking.RoomNumbers,
		Rooms:       booking.Rooms,
		Date:        booking.Date,
		Payment:     booking.Payment,
		IssuedAt:    timezone.Format(timezone.Now(), time.RFC1123),
	}

	if err = s.tmpl.Execute(&buf, data); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to render receipt")

		return constant.Empty, fmt.Errorf("failed to render receipt: %w", err)
	}

	fileName = fmt.Sprintf("%d-%s.html", timezone.Now().UnixMilli(), uuid.NewString())

	if err = s.storage.Save(ctx, s.cfg.Storage.ReceiptDir, fileName, constant.ContentTypeHTML, &buf); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to store receipt")

		return constant.Empty, fmt.Errorf("failed to store receipt: %w", err)
	}

	return fileName, nil
}

func (s *serviceImpl) Open(ctx context.Context, fileName string) (rc io.ReadCloser, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Open")
	defer scope.End()
	defer scope.TraceIfError(err)

	rc, err = s.storage.Open(ctx, s.cfg.Storage.ReceiptDir, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open receipt: %w", err)
	}

	return rc, nil
}

func (s *serviceImpl) Exists(ctx context.Context, fileName string) bool {
	return s.storage.Exists(ctx, s.cfg.Storage.ReceiptDir, fileName)
}

type receiptData struct {
	Hotel       string
	ID          string
	Type        string
	Name        string
	Email       string
	Phone       string
	Address     string
	RoomNumbers []int
	Rooms       int
	Date        string
	Payment     string
	IssuedAt    string
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Booking Receipt {{.ID}}</title>
  <style>
    body { font-family: sans-serif; margin: 2rem; color: #222; }
    h1 { font-size: 1.4rem; border-bottom: 2px solid #222; padding-bottom: .5rem; }
    table { border-collapse: collapse; margin-top: 1rem; }
    td { padding: .3rem .8rem .3rem 0; vertical-align: top; }
    td:first-child { font-weight: bold; }
    .footer { margin-top: 2rem; font-size: .8rem; color: #777; }
  </style>
</head>
<body>
  <h1>{{.Hotel}} Booking Receipt</h1>
  <table>
    <tr><td>Booking ID</td><td>{{.ID}}</td></tr>
    <tr><td>Type</td><td>{{.Type}}</td></tr>
    <tr><td>Guest</td><td>{{.Name}}</td></tr>
    {{if .Email}}<tr><td>Email</td><td>{{.Email}}</td></tr>{{end}}
    <tr><td>Phone</td><td>{{.Phone}}</td></tr>
    {{if .Address}}<tr><td>Address</td><td>{{.Address}}</td></tr>{{end}}
    <tr><td>Date</td><td>{{.Date}}</td></tr>
    <tr><td>Rooms</td><td>{{.Rooms}} ({{range $i, $n := .RoomNumbers}}{{if $i}}, {{end}}{{$n}}{{end}})</td></tr>
    <tr><td>Payment</td><td>{{.Payment}}</td></tr>
  </table>
  <p class="footer">Issued {{.IssuedAt}}</p>
</body>
</html>
`
