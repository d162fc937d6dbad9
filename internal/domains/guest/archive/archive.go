package archive

//go:generate go run go.uber.org/mock/mockgen -source=./archive.go -destination=../mocks/archive_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"

	"niseko/infras/s3"
	"niseko/internal/domains/guest/model"
	"niseko/shared/constant"
)

const directory = "registrations"

// Archive keeps the raw check-in answers outside the database.
type Archive interface {
	Store(ctx context.Context, registration model.Registration) (string, error)
}

type archiveImpl struct {
	storage s3.S3
}

func New(storage s3.S3) Archive {
	return &archiveImpl{storage: storage}
}

// Store uploads the registration as JSON and returns its location. Nothing is
// written and the location is empty when storage is not configured.
func (a *archiveImpl) Store(ctx context.Context, registration model.Registration) (string, error) {
	if !a.storage.Enabled() {
		return constant.Empty, nil
	}

	body, err := json.Marshal(registration.GuestData())
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to encode registration: %w", err)
	}

	url, err := a.storage.UploadFileBytes(ctx, constant.Empty, ObjectDirectory(registration), registration.ID+".json", constant.ContentTypeJSON, body)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to archive registration %s: %w", registration.GuestID, err)
	}

	return url, nil
}

// ObjectDirectory groups archived registrations by the month they were stored in.
func ObjectDirectory(registration model.Registration) string {
	return directory + "/" + registration.CreatedAt.Format("2006/01")
}
