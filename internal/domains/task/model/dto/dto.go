package dto

import (
	"github.com/google/uuid"

	"niseko/internal/domains/task/model"
	"niseko/shared"
	gDto "niseko/shared/dto"
	gModel "niseko/shared/model"
	"niseko/shared/timezone"
)

type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	GuestID     string `json:"guest_id"    validate:"omitempty,max=100"`
	RoomNumber  string `json:"room_number" validate:"omitempty,max=10"`
	Category    string `json:"category"    validate:"omitempty,oneof=general transportation dietary special_request housekeeping"`
	Assignee    string `json:"assignee"    validate:"omitempty,max=100"`
}

func (c *CreateTaskRequest) ToModel(user string) model.Task {
	category := c.Category
	if category == "" {
		category = model.CategoryGeneral
	}

	return model.Task{
		ID:          uuid.NewString(),
		Title:       c.Title,
		Description: c.Description,
		GuestID:     c.GuestID,
		RoomNumber:  c.RoomNumber,
		Category:    category,
		Status:      model.StatusOpen,
		Assignee:    c.Assignee,
		Metadata:    gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateTaskRequest struct {
	Title       string `db:"title"       json:"title"       validate:"omitempty,notblank,max=255"`
	Description string `db:"description" json:"description" validate:"omitempty,max=2000"`
	Category    string `db:"category"    json:"category"    validate:"omitempty,oneof=general transportation dietary special_request housekeeping"`
	Status      string `db:"status"      json:"status"      validate:"omitempty,oneof=open in_progress done"`
	Assignee    string `db:"assignee"    json:"assignee"    validate:"omitempty,max=100"`
}

type TaskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	GuestID     string `json:"guest_id"`
	RoomNumber  string `json:"room_number"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Assignee    string `json:"assignee"`
	gDto.Metadata
}

func (r *TaskResponse) FromModel(model model.Task) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.GuestID = model.GuestID
	r.RoomNumber = model.RoomNumber
	r.Category = model.Category
	r.Status = model.Status
	r.Assignee = model.Assignee
	r.Metadata.FromModel(model.Metadata)
}

type GetTasksResponse struct {
	Tasks     []TaskResponse `json:"tasks"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetTasksResponse) FromModels(models []model.Task, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tasks = make([]TaskResponse, len(models))
	for i, mod := range models {
		r.Tasks[i].FromModel(mod)
	}
}
