package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"strings"

	"niseko/infras/otel"
	"niseko/internal/domains/room/catalog"
	"niseko/internal/domains/room/model"
	"niseko/internal/domains/room/model/dto"
	"niseko/shared/constant"
	"niseko/shared/failure"
)

type Room interface {
	GetAll(ctx context.Context) dto.GetRoomsResponse
	Get(ctx context.Context, number string) (dto.RoomResponse, error)
	Match(ctx context.Context, preference string) dto.MatchResponse
}

type serviceImpl struct {
	catalog *catalog.Catalog
	otel    otel.Otel
}

func New(catalog *catalog.Catalog, otel otel.Otel) Room {
	return &serviceImpl{
		catalog: catalog,
		otel:    otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context) (res dto.GetRoomsResponse) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()

	res.FromEntries(s.catalog.Entries())

	return res
}

func (s *serviceImpl) Get(ctx context.Context, number string) (res dto.RoomResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()

	for _, entry := range s.catalog.Entries() {
		if entry.Room.Number == number {
			res.FromEntry(entry)

			return res, nil
		}
	}

	err = failure.NotFound("room not found")
	scope.TraceError(err)

	return res, err
}

// Match shows which room a free-text preference would be assigned.
func (s *serviceImpl) Match(ctx context.Context, preference string) (res dto.MatchResponse) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Match")
	defer scope.End()

	room, key := s.catalog.Match(preference)

	res.Preference = preference
	res.Matched = key != model.KeyStandard || strings.Contains(strings.ToLower(preference), model.KeyStandard)
	res.Room.FromEntry(model.Entry{Key: key, Room: room})

	return res
}
