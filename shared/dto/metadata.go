package dto

import (
	"niseko/shared/constant"
	"niseko/shared/model"
	"niseko/shared/timezone"
)

// Metadata is the audit block of a response, with times in the hotel timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func MetadataOf(src model.Metadata) Metadata {
	return Metadata{
		CreatedAt:  timezone.Format(src.CreatedAt, constant.DateFormat),
		ModifiedAt: timezone.Format(src.ModifiedAt, constant.DateFormat),
		CreatedBy:  src.CreatedBy,
		ModifiedBy: src.ModifiedBy,
	}
}

func (m *Metadata) FromModel(src model.Metadata) {
	*m = MetadataOf(src)
}
