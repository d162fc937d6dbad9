package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "niseko/infras/otel/mocks"
	"niseko/internal/domains/user/mocks"
	"niseko/internal/domains/user/model/dto"
	"niseko/internal/handlers/user"
	gDto "niseko/shared/dto"
	"niseko/shared/failure"
)

func setup(t *testing.T) (*mocks.MockUserService, http.Handler) {
	t.Helper()

	svc := mocks.NewMockUserService(gomock.NewController(t))
	handler := user.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func TestHandler_GetUsers(t *testing.T) {
	t.Run("role filter", func(t *testing.T) {
		svc, router := setup(t)

		svc.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error) {
				assert.Len(t, filter.Filters, 2)

				where, args := filter.GetWhereClause()
				assert.Equal(t, "(users.role = :role AND users.active = :active)", where)
				assert.Equal(t, "staff", args["role"])
				assert.Equal(t, true, args["active"])

				return dto.GetUsersResponse{Users: []dto.UserResponse{{ID: "staff-1"}}, TotalData: 1, TotalPage: 1}, nil
			})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/?role=staff&active=true", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"staff-1"`)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, router := setup(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/?role=guest", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed active flag", func(t *testing.T) {
		_, router := setup(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/?active=maybe", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"active must be true or false"}`, rec.Body.String())
	})
}

func TestHandler_GetUserByID(t *testing.T) {
	svc, router := setup(t)

	svc.EXPECT().Get(gomock.Any(), "ghost").Return(dto.UserResponse{}, failure.NotFound("user not found"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/ghost", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"user not found"}`, rec.Body.String())
}

func TestHandler_UpdateUser(t *testing.T) {
	t.Run("deactivate", func(t *testing.T) {
		svc, router := setup(t)

		svc.EXPECT().
			Update(gomock.Any(), gomock.Any(), "staff-1").
			DoAndReturn(func(_ context.Context, req dto.UpdateUserRequest, _ string) error {
				if assert.NotNil(t, req.Active) {
					assert.False(t, *req.Active)
				}

				return nil
			})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/users/staff-1", strings.NewReader(`{"active":false}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, router := setup(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/users/staff-1", strings.NewReader(`{"role":"guest"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_DeleteUser(t *testing.T) {
	svc, router := setup(t)

	svc.EXPECT().Delete(gomock.Any(), "staff-1").Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/staff-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User deleted successfully"}`, rec.Body.String())
}
