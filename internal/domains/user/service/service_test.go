package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"niseko/config"
	"niseko/infras/otel/mocks"
	userMocks "niseko/internal/domains/user/mocks"
	"niseko/internal/domains/user/model"
	"niseko/internal/domains/user/model/dto"
	"niseko/internal/domains/user/service"
	"niseko/shared/cache"
	cacheMocks "niseko/shared/cache/mocks"
	"niseko/shared/constant"
	gDto "niseko/shared/dto"
	"niseko/shared/failure"
	gModel "niseko/shared/model"
)

type fixture struct {
	repo  *userMocks.MockUser
	cache *cacheMocks.MockRedisCache
	svc   service.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:  userMocks.NewMockUser(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func (f fixture) cacheMiss() {
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
}

func asAdmin(id string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, id)
}

func boolPtr(b bool) *bool { return &b }

func staff() model.User {
	lastLogin := time.Date(2025, 12, 20, 9, 0, 0, 0, time.UTC)

	return model.User{
		ID:        "staff-1",
		Email:     "front@the1898niseko.jp",
		Password:  "$2a$10$hash",
		Role:      constant.RoleStaff,
		FullName:  "Front Desk",
		LastLogin: &lastLogin,
		Active:    true,
		Metadata:  gModel.NewMetadata(lastLogin, "admin-1"),
	}
}

func account(id, role string) model.User {
	u := staff()
	u.ID = id
	u.Role = role

	return u
}

func TestUserService_GetAll(t *testing.T) {
	t.Run("from database", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(11, nil)
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.User, error) {
				assert.Equal(t, constant.DefaultValueSortBy, params.SortBy)

				return []model.User{staff()}, nil
			})

		res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "password"}, gDto.FilterGroup{})

		require.NoError(t, err)
		assert.Equal(t, 2, res.TotalPage)
		assert.Equal(t, 11, res.TotalData)
		require.Len(t, res.Users, 1)
		assert.Equal(t, constant.RoleStaff, res.Users[0].Role)
		require.NotNil(t, res.Users[0].LastLogin)
	})

	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
		assert.NoError(t, err)
	})

	t.Run("count error", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))

		_, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
		assert.Error(t, err)
	})
}

func TestUserService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff(), nil)

		res, err := f.svc.Get(context.Background(), "staff-1")

		require.NoError(t, err)
		assert.Equal(t, "front@the1898niseko.jp", res.Email)
		assert.Equal(t, "admin-1", res.CreatedBy)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := f.svc.Get(context.Background(), "ghost")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestUserService_Update(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		req       dto.UpdateUserRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "promote staff",
			id:   "staff-1",
			req:  dto.UpdateUserRequest{Role: constant.RoleAdmin},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account("staff-1", constant.RoleStaff), nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, constant.RoleAdmin, fields[model.FieldRole])
						assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])
						assert.NotContains(t, fields, model.FieldActive)

						return nil
					})
			},
		},
		{
			name:     "empty request",
			id:       "staff-1",
			req:      dto.UpdateUserRequest{},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "self deactivation",
			id:       "admin-1",
			req:      dto.UpdateUserRequest{Active: boolPtr(false)},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "self demotion",
			id:       "admin-1",
			req:      dto.UpdateUserRequest{Role: constant.RoleStaff},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown user",
			id:   "ghost",
			req:  dto.UpdateUserRequest{FullName: "Ghost"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "demote the last admin",
			id:   "admin-2",
			req:  dto.UpdateUserRequest{Role: constant.RoleStaff},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account("admin-2", constant.RoleAdmin), nil)
				f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "deactivate one of several admins",
			id:   "admin-2",
			req:  dto.UpdateUserRequest{Active: boolPtr(false)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account("admin-2", constant.RoleAdmin), nil)
				f.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
						_, args := filter.GetWhereClause()
						assert.Equal(t, constant.RoleAdmin, args[model.FieldRole])
						assert.Equal(t, true, args[model.FieldActive])

						return 2, nil
					})
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "repository error",
			id:   "staff-1",
			req:  dto.UpdateUserRequest{FullName: "Concierge"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account("staff-1", constant.RoleStaff), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
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

			err := f.svc.Update(asAdmin("admin-1"), tt.req, tt.id)

			if tt.wantCode == 0 {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			}
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account("staff-1", constant.RoleStaff), nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Delete(asAdmin("admin-1"), "staff-1"))
	})

	t.Run("last admin", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account("admin-2", constant.RoleAdmin), nil)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)

		err := f.svc.Delete(asAdmin("admin-1"), "admin-2")
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("own account", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Delete(asAdmin("admin-1"), "admin-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		err := f.svc.Delete(asAdmin("admin-1"), "ghost")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
