package model

import "niseko/shared/model"

const (
	TableName  = "staff_tasks"
	EntityName = "task"

	FieldID         = "id"
	FieldTitle      = "title"
	FieldGuestID    = "guest_id"
	FieldRoomNumber = "room_number"
	FieldCategory   = "category"
	FieldStatus     = "status"
	FieldAssignee   = "assignee"
	FieldCreatedAt  = "created_at"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

const (
	CategoryGeneral        = "general"
	CategoryTransportation = "transportation"
	CategoryDietary        = "dietary"
	CategorySpecialRequest = "special_request"
	CategoryHousekeeping   = "housekeeping"
)

type Task struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	GuestID     string `db:"guest_id"`
	RoomNumber  string `db:"room_number"`
	Category    string `db:"category"`
	Status      string `db:"status"`
	Assignee    string `db:"assignee"`
	model.Metadata
}
