package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"niseko/config"
	"niseko/infras/jwt"
	jwtMocks "niseko/infras/jwt/mocks"
	"niseko/infras/otel/mocks"
	"niseko/internal/domains/auth/model/dto"
	"niseko/internal/domains/auth/service"
	guestMocks "niseko/internal/domains/guest/mocks"
	guestModel "niseko/internal/domains/guest/model"
	userMocks "niseko/internal/domains/user/mocks"
	userModel "niseko/internal/domains/user/model"
	"niseko/shared/constant"
	gDto "niseko/shared/dto"
	"niseko/shared/failure"
	gModel "niseko/shared/model"
	"niseko/shared/password"
	"niseko/shared/timezone"
)

// bcrypt hash of "password"
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

type fixture struct {
	repo   *userMocks.MockUser
	guests *guestMocks.MockRegistration
	jwt    *jwtMocks.MockJWT
	svc    service.Auth
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:   userMocks.NewMockUser(ctrl),
		guests: guestMocks.NewMockRegistration(ctrl),
		jwt:    jwtMocks.NewMockJWT(ctrl),
	}
	f.svc = service.New(f.repo, f.guests, &config.Config{}, mocks.NewOtel(), f.jwt)

	return f
}

func frontDesk() userModel.User {
	return userModel.User{
		ID:       "staff-1",
		Email:    "front@the1898niseko.jp",
		Password: passwordHash,
		Role:     constant.RoleStaff,
		FullName: "Front Desk",
		Active:   true,
		Metadata: gModel.NewMetadata(timezone.Now(), constant.ContextSystem),
	}
}

func tokens() *jwt.TokenPair {
	return &jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token", TokenType: "Bearer", ExpiresIn: 3600}
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{Email: "concierge@the1898niseko.jp", Password: "powder-day-1", FullName: "Concierge"}
	adminCtx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	t.Run("defaults to staff role", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().EmailTaken(gomock.Any(), req.Email).Return(false, nil)
		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) error {
				assert.Equal(t, constant.RoleStaff, user.Role)
				assert.Equal(t, "admin-1", user.CreatedBy)
				assert.True(t, user.Active)
				assert.NoError(t, password.Verify("powder-day-1", user.Password))

				return nil
			})

		res, err := f.svc.Register(adminCtx, req)

		require.NoError(t, err)
		assert.NotEmpty(t, res.ID)
	})

	t.Run("email taken", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().EmailTaken(gomock.Any(), req.Email).Return(true, nil)

		_, err := f.svc.Register(adminCtx, req)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("email taken concurrently", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().EmailTaken(gomock.Any(), req.Email).Return(false, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		_, err := f.svc.Register(adminCtx, req)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().EmailTaken(gomock.Any(), req.Email).Return(false, errors.New("database error"))

		_, err := f.svc.Register(adminCtx, req)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "front@the1898niseko.jp", Password: "password"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(frontDesk(), nil)
				f.jwt.EXPECT().GenerateTokenPair("staff-1", "front@the1898niseko.jp", constant.RoleStaff).Return(tokens(), nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, userModel.FieldLastLogin)

						return nil
					})
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@the1898niseko.jp", Password: "password"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "front@the1898niseko.jp", Password: "wrongpassword"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(frontDesk(), nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "inactive account",
			req:  dto.LoginRequest{Email: "front@the1898niseko.jp", Password: "password"},
			setupMock: func(f fixture) {
				inactive := frontDesk()
				inactive.Active = false

				f.repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token generation error",
			req:  dto.LoginRequest{Email: "front@the1898niseko.jp", Password: "password"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(frontDesk(), nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("sign failed"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "update last login error",
			req:  dto.LoginRequest{Email: "front@the1898niseko.jp", Password: "password"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(frontDesk(), nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(tokens(), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access-token", res.AccessToken)
			assert.Equal(t, "refresh-token", res.RefreshToken)
			assert.Equal(t, constant.RoleStaff, res.Role)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	const refresh = "valid-refresh-token"

	staffClaims := &jwt.Claims{UserID: "staff-1", Email: "front@the1898niseko.jp", Role: constant.RoleAdmin, Type: jwt.RefreshToken}
	guestClaims := &jwt.Claims{UserID: "G-1001", Role: constant.RoleGuest, Type: jwt.RefreshToken}

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "active staff",
			setupMock: func(f fixture) {
				f.jwt.EXPECT().ValidateToken(refresh, jwt.RefreshToken).Return(staffClaims, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(frontDesk(), nil)
				f.jwt.EXPECT().GenerateTokenPair("staff-1", "front@the1898niseko.jp", constant.RoleStaff).Return(tokens(), nil)
			},
		},
		{
			name: "demoted admin gets staff role",
			setupMock: func(f fixture) {
				demoted := frontDesk()
				demoted.Role = constant.RoleStaff

				f.jwt.EXPECT().ValidateToken(refresh, jwt.RefreshToken).Return(staffClaims, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(demoted, nil)
				f.jwt.EXPECT().GenerateTokenPair("staff-1", gomock.Any(), constant.RoleStaff).Return(tokens(), nil)
			},
		},
		{
			name: "deactivated staff",
			setupMock: func(f fixture) {
				inactive := frontDesk()
				inactive.Active = false

				f.jwt.EXPECT().ValidateToken(refresh, jwt.RefreshToken).Return(staffClaims, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "deleted staff",
			setupMock: func(f fixture) {
				f.jwt.EXPECT().ValidateToken(refresh, jwt.RefreshToken).Return(staffClaims, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "user store error",
			setupMock: func(f fixture) {
				f.jwt.EXPECT().ValidateToken(refresh, jwt.RefreshToken).Return(staffClaims, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("connection reset"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "guest still checked in",
			setupMock: func(f fixture) {
				f.jwt.EXPECT().ValidateToken(refresh, jwt.RefreshToken).Return(guestClaims, nil)
				f.guests.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(guestModel.Registration{GuestID: "G-1001", Email: "yuki@example.com", Status: guestModel.StatusCheckedIn}, nil)
				f.jwt.EXPECT().GenerateTokenPair("G-1001", "yuki@example.com", constant.RoleGuest).Return(tokens(), nil)
			},
		},
		{
			name: "checked out guest",
			setupMock: func(f fixture) {
				f.jwt.EXPECT().ValidateToken(refresh, jwt.RefreshToken).Return(guestClaims, nil)
				f.guests.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(guestModel.Registration{GuestID: "G-1001", Status: guestModel.StatusCheckedOut}, nil)
			},
			wantCode: http.StatusGone,
		},
		{
			name: "unknown guest",
			setupMock: func(f fixture) {
				f.jwt.EXPECT().ValidateToken(refresh, jwt.RefreshToken).Return(guestClaims, nil)
				f.guests.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(guestModel.Registration{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			setupMock: func(f fixture) {
				f.jwt.EXPECT().ValidateToken(refresh, jwt.RefreshToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: refresh})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access-token", res.AccessToken)
			assert.Equal(t, "Bearer", res.TokenType)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-1")

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.ChangePasswordRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "changed",
			ctx:  ctx,
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "first-tracks"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(frontDesk(), nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						hashed, ok := fields[userModel.FieldPassword].(string)
						require.True(t, ok)
						assert.NoError(t, password.Verify("first-tracks", hashed))
						assert.Equal(t, "staff-1", fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name:     "no identity",
			ctx:      context.Background(),
			req:      dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "first-tracks"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "account removed",
			ctx:  ctx,
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "first-tracks"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "wrong current password",
			ctx:  ctx,
			req:  dto.ChangePasswordRequest{CurrentPassword: "guess", NewPassword: "first-tracks"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(frontDesk(), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "update error",
			ctx:  ctx,
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "first-tracks"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(frontDesk(), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			err := f.svc.ChangePassword(tt.ctx, tt.req)

			if tt.wantCode == 0 {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			}
		})
	}
}
