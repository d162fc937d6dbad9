package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"niseko/config"
	"niseko/infras/jwt"
	"niseko/infras/otel"
	"niseko/internal/domains/guest/archive"
	"niseko/internal/domains/guest/event"
	"niseko/internal/domains/guest/model"
	"niseko/internal/domains/guest/model/dto"
	"niseko/internal/domains/guest/repository"
	"niseko/internal/domains/guest/session"
	taskModel "niseko/internal/domains/task/model"
	taskDto "niseko/internal/domains/task/model/dto"
	taskService "niseko/internal/domains/task/service"
	"niseko/shared"
	"niseko/shared/cache"
	"niseko/shared/constant"
	gDto "niseko/shared/dto"
	"niseko/shared/failure"
	"niseko/shared/timezone"
)

const (
	cacheGetSession  = "guest:session"
	cacheGetGuest    = "guest:get"
	cacheGetAllGuest = "guest:gets"
	cacheCountGuest  = "guest:count"
)

var sortableFields = []string{
	model.FieldName,
	model.FieldGuestID,
	model.FieldRoomNumber,
	model.FieldStatus,
	model.FieldCreatedAt,
}

type Guest interface {
	CheckIn(ctx context.Context, req dto.CheckInRequest, source string) (dto.CheckInResponse, error)
	Preview(ctx context.Context, req dto.CheckInRequest) (dto.PreviewResponse, error)
	GetSession(ctx context.Context, guestID string) (model.GuestSession, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRegistrationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, guestID string) (dto.RegistrationResponse, error)
	CheckOut(ctx context.Context, guestID string) error
}

type serviceImpl struct {
	repo      repository.Registration
	builder   *session.Builder
	jwt       jwt.JWT
	publisher event.Publisher
	archive   archive.Archive
	tasks     taskService.Task
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Registration,
	builder *session.Builder,
	jwt jwt.JWT,
	publisher event.Publisher,
	archive archive.Archive,
	tasks taskService.Task,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Guest {
	return &serviceImpl{
		repo:      repo,
		builder:   builder,
		jwt:       jwt,
		publisher: publisher,
		archive:   archive,
		tasks:     tasks,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) CheckIn(ctx context.Context, req dto.CheckInRequest, source string) (res dto.CheckInResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := guestFilter(req.GuestID)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if guest exists")

		return res, fmt.Errorf("failed to check if guest exists: %w", err)
	}

	if exist {
		return res, failure.GuestAlreadyCheckedIn
	}

	data := req.ToGuestData()
	guestSession := s.builder.Build(data)

	token, err := s.jwt.GenerateTokenPair(data.GuestID, data.Email, constant.RoleGuest)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate guest token")

		return res, fmt.Errorf("failed to generate guest token: %w", err)
	}

	registration := dto.NewRegistration(data, guestSession, source, data.GuestID)

	if err = s.repo.Insert(ctx, registration); err != nil {
		if shared.IsUniqueViolation(err) {
			return res, failure.GuestAlreadyCheckedIn
		}

		log.Error().Err(err).Msg("failed to store registration")

		return res, fmt.Errorf("failed to store registration: %w", err)
	}

	log.Info().
		Str("guestID", data.GuestID).
		Str("room", guestSession.Room.Number).
		Int("nights", guestSession.Stay.Nights).
		Msg("guest checked in")

	go s.afterCheckIn(context.WithoutCancel(ctx), registration, guestSession)

	res.Session = guestSession
	res.Token = token

	return res, nil
}

// afterCheckIn runs the side effects of a check-in. None of them can fail the check-in.
func (s *serviceImpl) afterCheckIn(ctx context.Context, registration model.Registration, guestSession model.GuestSession) {
	if err := s.cache.Save(ctx, shared.BuildCacheKey(cacheGetSession, registration.GuestID), guestSession, s.sessionTTL()); err != nil {
		log.Error().Err(err).Msg("failed to save guest session to cache")
	}

	s.invalidateLists(ctx)

	var checkedIn dto.CheckedInEvent
	checkedIn.FromSession(guestSession, registration.GuestData(), registration.Source)

	if err := s.publisher.CheckedIn(ctx, checkedIn); err != nil {
		log.Error().Err(err).Str("guestID", registration.GuestID).Msg("failed to publish check-in event")
	}

	if url, err := s.archive.Store(ctx, registration); err != nil {
		log.Error().Err(err).Str("guestID", registration.GuestID).Msg("failed to archive registration")
	} else if url != constant.Empty {
		log.Debug().Str("url", url).Msg("registration archived")
	}

	if !s.cfg.Guest.AutoTasks {
		return
	}

	if err := s.tasks.CreateBulk(ctx, TasksFor(registration)); err != nil {
		log.Error().Err(err).Str("guestID", registration.GuestID).Msg("failed to open staff tasks")
	}
}

// TasksFor lists the staff tasks a registration calls for: one per transportation request,
// dietary need and special request.
func TasksFor(registration model.Registration) []taskDto.CreateTaskRequest {
	tasks := []taskDto.CreateTaskRequest{}

	add := func(category, title, detail string) {
		if detail == constant.Empty {
			return
		}

		tasks = append(tasks, taskDto.CreateTaskRequest{
			Title:       fmt.Sprintf("%s for %s", title, registration.Name),
			Description: detail,
			GuestID:     registration.GuestID,
			RoomNumber:  registration.RoomNumber,
			Category:    category,
		})
	}

	add(taskModel.CategoryTransportation, "Arrange transportation", registration.Transportation)
	add(taskModel.CategoryDietary, "Note dietary needs", registration.Dietary)
	add(taskModel.CategorySpecialRequest, "Follow up special request", registration.Remarks)

	return tasks
}

// Preview derives a session for read-back without storing anything.
func (s *serviceImpl) Preview(ctx context.Context, req dto.CheckInRequest) (res dto.PreviewResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Preview")
	defer scope.End()

	res.Session = s.builder.Build(req.ToGuestData())

	return res, nil
}

func (s *serviceImpl) GetSession(ctx context.Context, guestID string) (res model.GuestSession, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSession")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetSession, guestID)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for guest session")

		return res, nil
	}

	registration, err := s.repo.Get(ctx, guestFilter(guestID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get registration")

		return res, fmt.Errorf("failed to get registration: %w", err)
	}

	if registration.ID == constant.Empty {
		return res, failure.NotFound("guest not found") // nolint:wrapcheck
	}

	if registration.Status == model.StatusCheckedOut {
		return res, failure.GuestCheckedOut
	}

	res = s.builder.Restore(registration)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.sessionTTL()); err != nil {
			log.Error().Err(err).Msg("failed to save guest session to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRegistrationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(sortableFields...)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllGuest, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for registrations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get registrations")

		return res, fmt.Errorf("failed to get registrations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save registrations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountGuest, gDto.QueryParams{}, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count registrations")

		return res, fmt.Errorf("failed to count registrations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save registration count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, guestID string) (res dto.RegistrationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetGuest, guestID)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	registration, err := s.repo.Get(ctx, guestFilter(guestID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get registration")

		return res, fmt.Errorf("failed to get registration: %w", err)
	}

	if registration.ID == constant.Empty {
		return res, failure.NotFound("guest not found") // nolint:wrapcheck
	}

	res.FromModel(registration)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save registration to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) CheckOut(ctx context.Context, guestID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := guestFilter(guestID)

	registration, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldGuestID, model.FieldRoomNumber, model.FieldStatus)
	if err != nil {
		log.Error().Err(err).Msg("failed to get registration")

		return fmt.Errorf("failed to get registration: %w", err)
	}

	if registration.ID == constant.Empty {
		return failure.NotFound("guest not found") // nolint:wrapcheck
	}

	sessionKey := shared.BuildCacheKey(cacheGetSession, guestID)

	if registration.Status == model.StatusCheckedOut {
		s.dropSession(ctx, sessionKey)

		return failure.GuestCheckedOut
	}

	// The portal must stop serving the session before the stay is closed.
	if err = s.cache.Delete(ctx, sessionKey); err != nil {
		log.Error().Err(err).Str("cacheKey", sessionKey).Msg("failed to drop cached guest session")

		return fmt.Errorf("failed to drop cached guest session: %w", err)
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	fields := map[string]any{
		model.FieldStatus:        model.StatusCheckedOut,
		model.FieldCheckedOutAt:  now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to check out guest")

		return fmt.Errorf("failed to check out guest: %w", err)
	}

	// a read between the first delete and the update may have cached it again
	s.dropSession(ctx, sessionKey)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetGuest, guestID)); err != nil {
			log.Error().Err(err).Str("guestID", guestID).Msg("failed to delete guest from cache")
		}

		s.invalidateLists(c)

		checkedOut := dto.CheckedOutEvent{
			GuestID:    guestID,
			RoomNumber: registration.RoomNumber,
			OccurredAt: timezone.Format(now, constant.DateFormat),
		}

		if err := s.publisher.CheckedOut(c, checkedOut); err != nil {
			log.Error().Err(err).Str("guestID", guestID).Msg("failed to publish check-out event")
		}
	}()

	return nil
}

func (s *serviceImpl) dropSession(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Error().Err(err).Str("cacheKey", key).Msg("failed to drop cached guest session")
	}
}

func (s *serviceImpl) sessionTTL() int {
	if s.cfg.Guest.SessionTTLSeconds > 0 {
		return s.cfg.Guest.SessionTTLSeconds
	}

	return s.cfg.Cache.TTL
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllGuest)
	shared.InvalidateCaches(ctx, s.cache, cacheCountGuest)
}

func guestFilter(guestID string) gDto.FilterGroup {
	return shared.FilterByID(guestID, model.FieldGuestID, model.TableName)
}
