package service_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"niseko/config"
	"niseko/infras/jwt"
	jwtMocks "niseko/infras/jwt/mocks"
	otelMocks "niseko/infras/otel/mocks"
	guestMocks "niseko/internal/domains/guest/mocks"
	"niseko/internal/domains/guest/model"
	"niseko/internal/domains/guest/model/dto"
	"niseko/internal/domains/guest/service"
	"niseko/internal/domains/guest/session"
	taskMocks "niseko/internal/domains/task/mocks"
	taskModel "niseko/internal/domains/task/model"
	taskDto "niseko/internal/domains/task/model/dto"
	"niseko/shared/cache"
	cacheMocks "niseko/shared/cache/mocks"
	"niseko/shared/constant"
	gDto "niseko/shared/dto"
	"niseko/shared/failure"
	gModel "niseko/shared/model"
	"niseko/shared/timezone"
)

const waitTimeout = 2 * time.Second

type fixture struct {
	repo      *guestMocks.MockRegistration
	publisher *guestMocks.MockPublisher
	archive   *guestMocks.MockArchive
	tasks     *taskMocks.MockTaskService
	jwt       *jwtMocks.MockJWT
	cache     *cacheMocks.MockRedisCache
	cfg       *config.Config
	svc       service.Guest
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Guest.SessionTTLSeconds = 86400
	cfg.Guest.AutoTasks = true

	f := fixture{
		repo:      guestMocks.NewMockRegistration(ctrl),
		publisher: guestMocks.NewMockPublisher(ctrl),
		archive:   guestMocks.NewMockArchive(ctrl),
		tasks:     taskMocks.NewMockTaskService(ctrl),
		jwt:       jwtMocks.NewMockJWT(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		cfg:       cfg,
	}

	f.svc = service.New(f.repo, session.NewBuilder(), f.jwt, f.publisher, f.archive, f.tasks, cfg, f.cache, otelMocks.NewOtel())

	return f
}

// relaxCache accepts any cache write so asynchronous bookkeeping never fails a test.
func (f fixture) relaxCache() {
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (f fixture) cacheMiss() {
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("side effects did not complete")
	}
}

func checkInRequest() dto.CheckInRequest {
	return dto.CheckInRequest{
		GuestID:        "g-1",
		Name:           "Hana Sato",
		Email:          "hana@example.com",
		ArrivalDate:    "2025-12-20",
		DepartureDate:  "2025-12-23",
		RoomPreference: "Private onsen if possible",
		Transportation: "Airport shuttle from New Chitose",
		Dietary:        "vegetarian",
	}
}

func TestGuestService_CheckIn(t *testing.T) {
	f := newFixture(t)

	token := &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh"}
	done := make(chan struct{})

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	f.jwt.EXPECT().GenerateTokenPair("g-1", "hana@example.com", constant.RoleGuest).Return(token, nil)
	f.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, reg model.Registration) error {
			assert.Equal(t, "g-1", reg.GuestID)
			assert.Equal(t, "301", reg.RoomNumber)
			assert.Equal(t, "Premium Onsen Suite", reg.RoomType)
			assert.Equal(t, 3, reg.Nights)
			assert.Equal(t, model.StatusCheckedIn, reg.Status)
			assert.Equal(t, "mobile/Safari", reg.Source)
			assert.Regexp(t, regexp.MustCompile(`^NIS-[0-9A-Z]{1,6}$`), reg.ConfirmationCode)

			return nil
		})

	f.cache.EXPECT().Save(gomock.Any(), "guest:session:g-1", gomock.Any(), 86400).Return(nil)
	f.cache.EXPECT().Clear(gomock.Any(), "guest:gets*").Return(nil)
	f.cache.EXPECT().Clear(gomock.Any(), "guest:count*").Return(nil)
	f.publisher.EXPECT().
		CheckedIn(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt dto.CheckedInEvent) error {
			assert.Equal(t, "g-1", evt.GuestID)
			assert.Equal(t, "301", evt.Room.Number)
			assert.Equal(t, "mobile/Safari", evt.Source)

			return nil
		})
	f.archive.EXPECT().Store(gomock.Any(), gomock.Any()).Return("s3://archive/registrations/g-1.json", nil)
	f.tasks.EXPECT().
		CreateBulk(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, reqs []taskDto.CreateTaskRequest) error {
			defer close(done)

			if !assert.Len(t, reqs, 2) {
				return nil
			}

			assert.Equal(t, taskModel.CategoryTransportation, reqs[0].Category)
			assert.Equal(t, taskModel.CategoryDietary, reqs[1].Category)
			assert.Equal(t, "301", reqs[0].RoomNumber)

			return nil
		})

	res, err := f.svc.CheckIn(context.Background(), checkInRequest(), "mobile/Safari")
	require.NoError(t, err)

	assert.Equal(t, token, res.Token)
	assert.Equal(t, "g-1", res.Session.ID)
	assert.Equal(t, "Premium Onsen Suite", res.Session.Room.Type)
	assert.Equal(t, 3, res.Session.Stay.Nights)
	require.NotNil(t, res.Session.Email)
	assert.Equal(t, "hana@example.com", *res.Session.Email)
	assert.Nil(t, res.Session.Phone)

	wait(t, done)
}

func TestGuestService_CheckInSideEffectFailures(t *testing.T) {
	f := newFixture(t)
	f.cfg.Guest.AutoTasks = false
	f.relaxCache()

	done := make(chan struct{})

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(&jwt.TokenPair{}, nil)
	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	f.publisher.EXPECT().CheckedIn(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
	f.archive.EXPECT().
		Store(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ model.Registration) (string, error) {
			close(done)

			return "", errors.New("bucket missing")
		})

	_, err := f.svc.CheckIn(context.Background(), checkInRequest(), "")
	assert.NoError(t, err)

	wait(t, done)
}

func TestGuestService_CheckInRejected(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "already checked in",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "concurrent duplicate insert",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(&jwt.TokenPair{}, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "exist error",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "token error",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("no secret"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "insert error",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(&jwt.TokenPair{}, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.CheckIn(context.Background(), checkInRequest(), "")
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestGuestService_Preview(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Preview(context.Background(), dto.CheckInRequest{
		GuestID:        "g-9",
		Name:           "Ken",
		RoomPreference: "anything with a view of the garden",
	})
	require.NoError(t, err)

	assert.Equal(t, "g-9", res.Session.ID)
	assert.Equal(t, "Garden Terrace Room", res.Session.Room.Type)
	assert.Equal(t, 1, res.Session.Stay.Nights)
	assert.Nil(t, res.Session.Email)
}

func TestGuestService_GetSession(t *testing.T) {
	stored := model.Registration{
		ID:               "reg-1",
		GuestID:          "g-1",
		Name:             "Hana Sato",
		ArrivalDate:      "2025-12-20",
		DepartureDate:    "2025-12-23",
		ConfirmationCode: "NIS-ABC123",
		RoomNumber:       "301",
		RoomType:         "Premium Onsen Suite",
		Nights:           3,
		WifiNetwork:      session.DefaultWifiNetwork,
		WifiPassword:     "NISEKOAB23",
		Status:           model.StatusCheckedIn,
	}

	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), "guest:session:g-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, ok := value.(*model.GuestSession)
				require.True(t, ok)

				res.ID = "g-1"
				res.ConfirmationCode = "NIS-CACHED"

				return nil
			})

		res, err := f.svc.GetSession(context.Background(), "g-1")
		require.NoError(t, err)
		assert.Equal(t, "NIS-CACHED", res.ConfirmationCode)
	})

	t.Run("restored from registration", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()
		f.relaxCache()

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

		res, err := f.svc.GetSession(context.Background(), "g-1")
		require.NoError(t, err)

		assert.Equal(t, "NIS-ABC123", res.ConfirmationCode)
		assert.Equal(t, "NISEKOAB23", res.Wifi.Password)
		assert.Equal(t, "Premium Onsen Suite", res.Room.Type)
		assert.NotEmpty(t, res.Room.Features)
		assert.Equal(t, 3, res.Stay.Nights)
	})

	t.Run("unknown guest", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Registration{}, nil)

		_, err := f.svc.GetSession(context.Background(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("checked out guest", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()

		checkedOut := stored
		checkedOut.Status = model.StatusCheckedOut

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(checkedOut, nil)

		_, err := f.svc.GetSession(context.Background(), "g-1")
		assert.True(t, failure.Is(err, failure.GuestCheckedOut))
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Registration{}, errors.New("database error"))

		_, err := f.svc.GetSession(context.Background(), "g-1")
		assert.Error(t, err)
	})
}

func TestGuestService_GetAll(t *testing.T) {
	now := timezone.Now()

	t.Run("from repository", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()
		f.relaxCache()

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Registration, error) {
				assert.Equal(t, model.FieldRoomNumber, params.SortBy)
				assert.Equal(t, gDto.SortDirAsc, params.SortDir)

				return []model.Registration{{ID: "reg-1", GuestID: "g-1", Metadata: gModel.NewMetadata(now, "g-1")}}, nil
			})

		res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: model.FieldRoomNumber}, gDto.FilterGroup{})
		require.NoError(t, err)

		assert.Equal(t, 1, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
		require.Len(t, res.Registrations, 1)
		assert.Equal(t, "g-1", res.Registrations[0].GuestID)
	})

	t.Run("count error", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("count error"))

		_, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
		assert.Error(t, err)
	})
}

func TestGuestService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()
		f.relaxCache()

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Registration{ID: "reg-1", GuestID: "g-1", Name: "Hana"}, nil)

		res, err := f.svc.Get(context.Background(), "g-1")
		require.NoError(t, err)
		assert.Equal(t, "Hana", res.Name)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Registration{}, nil)

		_, err := f.svc.Get(context.Background(), "g-1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestGuestService_CheckOut(t *testing.T) {
	t.Run("checks out", func(t *testing.T) {
		f := newFixture(t)

		done := make(chan struct{})

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Registration{ID: "reg-1", GuestID: "g-1", RoomNumber: "301", Status: model.StatusCheckedIn}, nil)

		dropped := f.cache.EXPECT().Delete(gomock.Any(), "guest:session:g-1").Return(nil)
		updated := f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusCheckedOut, fields[model.FieldStatus])
				assert.Contains(t, fields, model.FieldCheckedOutAt)
				assert.Equal(t, "staff-1", fields[constant.FieldModifiedBy])

				return nil
			}).
			After(dropped)
		f.cache.EXPECT().Delete(gomock.Any(), "guest:session:g-1").Return(nil).After(updated)
		f.cache.EXPECT().Delete(gomock.Any(), "guest:get:g-1").Return(nil)
		f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		f.publisher.EXPECT().
			CheckedOut(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, evt dto.CheckedOutEvent) error {
				defer close(done)

				assert.Equal(t, "g-1", evt.GuestID)
				assert.Equal(t, "301", evt.RoomNumber)

				return nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-1")
		require.NoError(t, f.svc.CheckOut(ctx, "g-1"))

		wait(t, done)
	})

	t.Run("unknown guest", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Registration{}, nil)

		err := f.svc.CheckOut(context.Background(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("already checked out", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Registration{ID: "reg-1", Status: model.StatusCheckedOut}, nil)
		f.cache.EXPECT().Delete(gomock.Any(), "guest:session:g-1").Return(errors.New("redis down"))

		err := f.svc.CheckOut(context.Background(), "g-1")
		assert.Equal(t, http.StatusGone, failure.GetCode(err))
	})

	t.Run("session still cached", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Registration{ID: "reg-1", GuestID: "g-1", Status: model.StatusCheckedIn}, nil)
		f.cache.EXPECT().Delete(gomock.Any(), "guest:session:g-1").Return(errors.New("redis down"))

		err := f.svc.CheckOut(context.Background(), "g-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("update error", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Registration{ID: "reg-1", Status: model.StatusCheckedIn}, nil)
		f.cache.EXPECT().Delete(gomock.Any(), "guest:session:g-1").Return(nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		assert.Error(t, f.svc.CheckOut(context.Background(), "g-1"))
	})
}

func TestTasksFor(t *testing.T) {
	reg := model.Registration{
		GuestID:        "g-1",
		Name:           "Hana",
		RoomNumber:     "205",
		Transportation: "",
		Dietary:        "no shellfish",
		Remarks:        "late arrival around 23:00",
	}

	tasks := service.TasksFor(reg)

	require.Len(t, tasks, 2)
	assert.Equal(t, taskModel.CategoryDietary, tasks[0].Category)
	assert.Equal(t, "Note dietary needs for Hana", tasks[0].Title)
	assert.Equal(t, "no shellfish", tasks[0].Description)
	assert.Equal(t, taskModel.CategorySpecialRequest, tasks[1].Category)
	assert.Equal(t, "205", tasks[1].RoomNumber)

	assert.Empty(t, service.TasksFor(model.Registration{Name: "Ken"}))
}
