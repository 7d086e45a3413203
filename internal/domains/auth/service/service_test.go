package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"inn/config"
	"inn/infras/jwt"
	jwtMocks "inn/infras/jwt/mocks"
	"inn/infras/otel/mocks"
	"inn/internal/domains/auth/model"
	"inn/internal/domains/auth/model/dto"
	repoMocks "inn/internal/domains/auth/repository/mocks"
	"inn/internal/domains/auth/service"
	"inn/shared/constant"
	"inn/shared/failure"
	"inn/shared/password"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Hotel.Admin.Username = "admin"
	cfg.Hotel.Admin.Password = "secret123"

	return cfg
}

func storedCredential(t *testing.T, username, plain string) model.Credential {
	t.Helper()

	salt, err := password.NewSalt()
	require.NoError(t, err)

	hash, err := password.Hash(plain, salt)
	require.NoError(t, err)

	return model.Credential{Username: username, Salt: salt, Hash: hash}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdminRepo := repoMocks.NewMockAdmin(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockAdminRepo, testConfig(), mockOtel, mockJWT)

	cred := storedCredential(t, "admin", "secret123")

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantErr   bool
		wantToken string
	}{
		{
			name: "successful login",
			req: dto.LoginRequest{
				Username: "admin",
				Password: "secret123",
			},
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any()).
					Return(cred, nil)

				mockJWT.EXPECT().
					GenerateToken(cred.Username, constant.RoleAdmin).
					Return(&jwt.Token{Token: "signed-token", ExpiresIn: 28800}, nil)
			},
			wantErr:   false,
			wantToken: "signed-token",
		},
		{
			name: "unknown username",
			req: dto.LoginRequest{
				Username: "intruder",
				Password: "secret123",
			},
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any()).
					Return(cred, nil)
			},
			wantErr: true,
		},
		{
			name: "wrong password",
			req: dto.LoginRequest{
				Username: "admin",
				Password: "not-the-password",
			},
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any()).
					Return(cred, nil)
			},
			wantErr: true,
		},
		{
			name: "credential store failure",
			req: dto.LoginRequest{
				Username: "admin",
				Password: "secret123",
			},
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any()).
					Return(model.Credential{}, errors.New("disk gone"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Login(context.Background(), tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantToken, res.Token)
			assert.Equal(t, int64(28800), res.ExpiresIn)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdminRepo := repoMocks.NewMockAdmin(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockAdminRepo, testConfig(), mockOtel, mockJWT)

	cred := storedCredential(t, "admin", "secret123")

	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		username  string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful change",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "secret123",
				NewPassword:     "brand-new-pass",
			},
			username: "admin",
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any()).
					Return(cred, nil)

				mockAdminRepo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, saved model.Credential) error {
						assert.Equal(t, "admin", saved.Username)
						assert.NotEqual(t, cred.Hash, saved.Hash)
						assert.NoError(t, password.Verify("brand-new-pass", saved.Salt, saved.Hash))
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "wrong current password",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "nope",
				NewPassword:     "brand-new-pass",
			},
			username: "admin",
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any()).
					Return(cred, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "new password equals current",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "secret123",
				NewPassword:     "secret123",
			},
			username: "admin",
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any()).
					Return(cred, nil)
			},
			wantErr: true,
		},
		{
			name: "token subject does not match stored record",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "secret123",
				NewPassword:     "brand-new-pass",
			},
			username: "someone-else",
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any()).
					Return(cred, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.ChangePassword(context.Background(), tt.req, tt.username)
			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdminRepo := repoMocks.NewMockAdmin(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockAdminRepo, testConfig(), mockOtel, mockJWT)

	// Stored credential no longer matches the configured default.
	cred := storedCredential(t, "admin", "forgotten-pass")

	t.Run("matching username restores the default password", func(t *testing.T) {
		mockAdminRepo.EXPECT().
			Get(gomock.Any()).
			Return(cred, nil)

		mockAdminRepo.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, saved model.Credential) error {
				assert.Equal(t, "admin", saved.Username)
				assert.NoError(t, password.Verify("secret123", saved.Salt, saved.Hash))
				return nil
			})

		err := svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
			Username: "admin",
		})
		assert.NoError(t, err)
	})

	t.Run("unknown username is rejected", func(t *testing.T) {
		mockAdminRepo.EXPECT().
			Get(gomock.Any()).
			Return(cred, nil)

		err := svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
			Username: "intruder",
		})
		assert.Error(t, err)
	})
}
