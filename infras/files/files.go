package files

//go:generate go run go.uber.org/mock/mockgen -source=./files.go -destination=./mocks/files_mock.go -package=mocks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"inn/config"
	"inn/infras/s3"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Storage persists uploaded booking documents and generated receipts.
// The directory argument selects the logical area (uploads or receipts).
type Storage interface {
	Save(ctx context.Context, directory, fileName, contentType string, data io.Reader) error
	Open(ctx context.Context, directory, fileName string) (io.ReadCloser, error)
	Exists(ctx context.Context, directory, fileName string) bool
}

func New(cfg *config.Config, s3Client s3.S3) Storage {
	switch cfg.Storage.FileDriver {
	case DriverS3:
		log.Info().Msg("Using S3 file storage")

		return &s3Storage{client: s3Client}
	case DriverLocal:
		log.Info().Msg("Using local disk file storage")
	default:
		log.Warn().Str("driver", cfg.Storage.FileDriver).Msg("Unknown file driver, falling back to local disk")
	}

	return &localStorage{}
}

type localStorage struct{}

func (s *localStorage) Save(_ context.Context, directory, fileName, _ string, data io.Reader) error {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", directory, err)
	}

	fullPath := filepath.Join(directory, fileName)

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		return fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}

	return nil
}

func (s *localStorage) Open(_ context.Context, directory, fileName string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(directory, fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", fileName, err)
	}

	return file, nil
}

func (s *localStorage) Exists(_ context.Context, directory, fileName string) bool {
	_, err := os.Stat(filepath.Join(directory, fileName))

	return err == nil
}

type s3Storage struct {
	client s3.S3
}

func (s *s3Storage) Save(ctx context.Context, directory, fileName, contentType string, data io.Reader) error {
	if _, err := s.client.Upload(ctx, directory, fileName, contentType, data); err != nil {
		return fmt.Errorf("failed to upload file %s: %w", fileName, err)
	}

	return nil
}

func (s *s3Storage) Open(ctx context.Context, directory, fileName string) (io.ReadCloser, error) {
	return s.client.Download(ctx, directory, fileName) //nolint:wrapcheck
}

func (s *s3Storage) Exists(ctx context.Context, directory, fileName string) bool {
	return s.client.Exists(ctx, directory, fileName)
}
