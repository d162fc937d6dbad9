package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"niseko/infras/otel"
	"niseko/infras/postgres"
	"niseko/internal/domains/guest/model"
	gDto "niseko/shared/dto"
	gRepo "niseko/shared/repository"
)

type Registration interface {
	Insert(ctx context.Context, registration model.Registration) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Registration, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Registration, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Registration]
}

func New(db *postgres.Connection, otel otel.Otel) Registration {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Registration](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
