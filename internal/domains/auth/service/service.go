package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"inn/config"
	"inn/infras/jwt"
	"inn/infras/otel"
	"inn/internal/domains/auth/model"
	"inn/internal/domains/auth/model/dto"
	"inn/internal/domains/auth/repository"
	"inn/shared/constant"
	"inn/shared/failure"
	"inn/shared/password"
)

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, username string) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
}

type serviceImpl struct {
	adminRepo  repository.Admin
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(adminRepo repository.Admin, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		adminRepo:  adminRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	cred, err := s.adminRepo.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load admin credential")

		return res, fmt.Errorf("failed to load admin credential: %w", err)
	}

	if req.Username != cred.Username {
		log.Warn().Str("username", req.Username).Msg("login attempt with unknown username")

		return res, failure.InvalidCredentials
	}

	if err := password.Verify(req.Password, cred.Salt, cred.Hash); err != nil {
		log.Warn().Str("username", req.Username).Msg("login attempt with wrong password")

		return res, failure.InvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(cred.Username, constant.RoleAdmin)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")

		return res, fmt.Errorf("failed to generate token: %w", err)
	}

	res.FromToken(token)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, username string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	cred, err := s.adminRepo.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load admin credential")

		return fmt.Errorf("failed to load admin credential: %w", err)
	}

	if username != cred.Username {
		return failure.InvalidCredentials
	}

	if err := password.Verify(req.CurrentPassword, cred.Salt, cred.Hash); err != nil {
		return failure.Unauthorized("current password is incorrect")
	}

	if req.NewPassword == req.CurrentPassword {
		return failure.BadRequestFromString("new password must differ from the current one")
	}

	return s.rotate(ctx, cred.Username, req.NewPassword)
}

// ResetPassword restores the configured default password when the supplied
// username matches the stored record. The endpoint is deliberately
// unauthenticated so a locked-out operator can recover access; deployments
// exposing it publicly should guard it at the network layer.
func (s *serviceImpl) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResetPassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	cred, err := s.adminRepo.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load admin credential")

		return fmt.Errorf("failed to load admin credential: %w", err)
	}

	if req.Username != cred.Username {
		log.Warn().Str("username", req.Username).Msg("password reset attempt with unknown username")

		return failure.InvalidCredentials
	}

	return s.rotate(ctx, cred.Username, s.cfg.Hotel.Admin.Password)
}

func (s *serviceImpl) rotate(ctx context.Context, username, newPassword string) error {
	salt, err := password.NewSalt()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate salt")

		return fmt.Errorf("failed to generate salt: %w", err)
	}

	hash, err := password.Hash(newPassword, salt)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	cred := model.Credential{
		Username: username,
		Salt:     salt,
		Hash:     hash,
	}

	if err := s.adminRepo.Save(ctx, cred); err != nil {
		log.Error().Err(err).Msg("failed to save rotated credential")

		return fmt.Errorf("failed to save rotated credential: %w", err)
	}

	log.Info().Str("username", username).Msg("admin password rotated")

	return nil
}
