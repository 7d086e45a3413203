package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"inn/config"
	"inn/infras/otel"
	"inn/shared/constant"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNotExist reports that the document file is absent. Callers treat this
	// as an empty document.
	ErrNotExist = errors.New("document does not exist")
	// ErrCorrupted reports that the document file exists but cannot be decoded.
	// Distinct from ErrNotExist so real corruption is visible in logs instead of
	// being silently masked as "no data yet".
	ErrCorrupted = errors.New("document is corrupted")
)

// Store persists whole documents as flat JSON files. Update runs a scoped
// read-modify-write under a per-document lock, so two concurrent mutations of
// the same document cannot lose each other's writes.
type Store interface {
	Read(ctx context.Context, doc string, out any) error
	Write(ctx context.Context, doc string, value any) error
	Update(ctx context.Context, doc string, out any, mutate func() error) error
}

type fileStore struct {
	dir  string
	otel otel.Otel

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(cfg *config.Config, ot otel.Otel) Store {
	return NewAtDir(cfg.Storage.DataDir, ot)
}

// NewAtDir creates a store rooted at an explicit directory.
func NewAtDir(dir string, ot otel.Otel) Store {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("Failed to create data directory")
	}

	log.Info().Str("dir", dir).Msg("JSON document store initialized")

	return &fileStore{
		dir:   dir,
		otel:  ot,
		locks: map[string]*sync.Mutex{},
	}
}

func (s *fileStore) Read(ctx context.Context, doc string, out any) (err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".Read")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelDocumentAttributeKey, doc)

	lock := s.lockFor(doc)
	lock.Lock()
	defer lock.Unlock()

	return s.read(doc, out)
}

func (s *fileStore) Write(ctx context.Context, doc string, value any) (err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".Write")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelDocumentAttributeKey, doc)

	lock := s.lockFor(doc)
	lock.Lock()
	defer lock.Unlock()

	return s.write(doc, value)
}

// Update reads the document into out, applies mutate, and writes out back,
// all under the document lock. A missing document leaves out at its zero
// value; a corrupted one is logged and then treated the same way, preserving
// the historical degrade-to-empty behavior.
func (s *fileStore) Update(ctx context.Context, doc string, out any, mutate func() error) (err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelDocumentAttributeKey, doc)

	lock := s.lockFor(doc)
	lock.Lock()
	defer lock.Unlock()

	if err := s.read(doc, out); err != nil {
		if !errors.Is(err, ErrNotExist) && !errors.Is(err, ErrCorrupted) {
			return err
		}

		if errors.Is(err, ErrCorrupted) {
			log.Warn().Err(err).Str("document", doc).Msg("document unreadable, starting from empty state")
		}
	}

	if err := mutate(); err != nil {
		return err
	}

	return s.write(doc, out)
}

func (s *fileStore) read(doc string, out any) error {
	raw, err := os.ReadFile(s.path(doc))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotExist, doc)
		}

		return fmt.Errorf("%w: %s: %s", ErrCorrupted, doc, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrCorrupted, doc, err)
	}

	return nil
}

// write marshals pretty-printed JSON (matching the historical file format) to
// a temp file and renames it into place, so readers never observe a partial write.
func (s *fileStore) write(doc string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document (%s): %w", doc, err)
	}

	tmp, err := os.CreateTemp(s.dir, doc+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file (%s): %w", doc, err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("failed to write document (%s): %w", doc, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("failed to close temp file (%s): %w", doc, err)
	}

	if err := os.Rename(tmp.Name(), s.path(doc)); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("failed to replace document (%s): %w", doc, err)
	}

	return nil
}

func (s *fileStore) path(doc string) string {
	return filepath.Join(s.dir, doc+".json")
}

func (s *fileStore) lockFor(doc string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[doc]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[doc] = lock
	}

	return lock
}
