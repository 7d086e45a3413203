package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"inn/config"
	"inn/infras/jsonstore"
	"inn/infras/otel"
	"inn/internal/domains/auth/model"
	"inn/shared/constant"
	"inn/shared/password"
)

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=./mocks/repository_mock.go -package=mocks

// Admin stores the single admin credential record.
type Admin interface {
	Get(ctx context.Context) (model.Credential, error)
	Save(ctx context.Context, credential model.Credential) error
}

type repositoryImpl struct {
	store jsonstore.Store
	cfg   *config.Config
	otel  otel.Otel
}

func New(store jsonstore.Store, cfg *config.Config, otel otel.Otel) Admin {
	return &repositoryImpl{
		store: store,
		cfg:   cfg,
		otel:  otel,
	}
}

// Get returns the stored credential. When the record is absent or unreadable
// it is re-seeded from the configured bootstrap username and password, so a
// fresh deployment can always log in.
func (r *repositoryImpl) Get(ctx context.Context) (cred model.Credential, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = r.store.Read(ctx, constant.DocumentAdmin, &cred)
	if err == nil && cred.Username != constant.Empty {
		return cred, nil
	}

	if err != nil && !errors.Is(err, jsonstore.ErrNotExist) && !errors.Is(err, jsonstore.ErrCorrupted) {
		log.Error().Err(err).Msg("failed to read admin credential")

		return cred, fmt.Errorf("failed to read admin credential: %w", err)
	}

	if errors.Is(err, jsonstore.ErrCorrupted) {
		log.Warn().Msg("admin credential record unreadable, re-seeding from configuration")
	}

	cred, err = r.seed(ctx)
	if err != nil {
		return model.Credential{}, err
	}

	return cred, nil
}

func (r *repositoryImpl) Save(ctx context.Context, credential model.Credential) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Save")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = r.store.Write(ctx, constant.DocumentAdmin, credential); err != nil {
		log.Error().Err(err).Msg("failed to persist admin credential")

		return fmt.Errorf("failed to persist admin credential: %w", err)
	}

	return nil
}

func (r *repositoryImpl) seed(ctx context.Context) (model.Credential, error) {
	salt, err := password.NewSalt()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate credential salt")

		return model.Credential{}, fmt.Errorf("failed to generate credential salt: %w", err)
	}

	hash, err := password.Hash(r.cfg.Hotel.Admin.Password, salt)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash bootstrap password")

		return model.Credential{}, fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	cred := model.Credential{
		Username: r.cfg.Hotel.Admin.Username,
		Salt:     salt,
		Hash:     hash,
	}

	if err := r.store.Write(ctx, constant.DocumentAdmin, cred); err != nil {
		log.Error().Err(err).Msg("failed to write seeded admin credential")

		return model.Credential{}, fmt.Errorf("failed to write seeded admin credential: %w", err)
	}

	log.Info().Str("username", cred.Username).Msg("admin credential seeded")

	return cred, nil
}
