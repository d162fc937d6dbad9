package dto

import (
	"github.com/google/uuid"

	"niseko/infras/jwt"
	"niseko/internal/domains/guest/model"
	roomModel "niseko/internal/domains/room/model"
	"niseko/shared"
	"niseko/shared/constant"
	gDto "niseko/shared/dto"
	gModel "niseko/shared/model"
	"niseko/shared/timezone"
)

type CheckInRequest struct {
	GuestID        string `json:"guest_id"        validate:"required,notblank,max=100"`
	Name           string `json:"name"            validate:"required,notblank,max=200"`
	Email          string `json:"email"           validate:"omitempty,email,max=254"`
	Phone          string `json:"phone"           validate:"omitempty,max=40"`
	PartySize      string `json:"party_size"      validate:"omitempty,max=50"`
	Children       string `json:"children"        validate:"omitempty,max=50"`
	ArrivalDate    string `json:"arrival_date"    validate:"omitempty,max=100"`
	DepartureDate  string `json:"departure_date"  validate:"omitempty,max=100"`
	RoomPreference string `json:"room_preference" validate:"omitempty,max=500"`
	Transportation string `json:"transportation"  validate:"omitempty,max=500"`
	Dietary        string `json:"dietary"         validate:"omitempty,max=500"`
	Remarks        string `json:"remarks"         validate:"omitempty,max=1000"`
	RegisteredAt   string `json:"registered_at"   validate:"omitempty,max=100"`
}

func (c *CheckInRequest) ToGuestData() model.RegisteredGuestData {
	return model.RegisteredGuestData{
		GuestID:        c.GuestID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		PartySize:      c.PartySize,
		Children:       c.Children,
		ArrivalDate:    c.ArrivalDate,
		DepartureDate:  c.DepartureDate,
		RoomPreference: c.RoomPreference,
		Transportation: c.Transportation,
		Dietary:        c.Dietary,
		Remarks:        c.Remarks,
		RegisteredAt:   c.RegisteredAt,
	}
}

// NewRegistration pairs the check-in answers with the session derived from them.
func NewRegistration(data model.RegisteredGuestData, session model.GuestSession, source, user string) model.Registration {
	registeredAt := data.RegisteredAt
	if registeredAt == constant.Empty {
		registeredAt = timezone.Format(timezone.Now(), constant.DateFormat)
	}

	language := model.DefaultLanguage
	if session.Preferences != nil && session.Preferences.Language != constant.Empty {
		language = session.Preferences.Language
	}

	return model.Registration{
		ID:               uuid.NewString(),
		GuestID:          data.GuestID,
		Name:             data.Name,
		Email:            data.Email,
		Phone:            data.Phone,
		PartySize:        data.PartySize,
		Children:         data.Children,
		ArrivalDate:      data.ArrivalDate,
		DepartureDate:    data.DepartureDate,
		RoomPreference:   data.RoomPreference,
		Transportation:   data.Transportation,
		Dietary:          data.Dietary,
		Remarks:          data.Remarks,
		RegisteredAt:     registeredAt,
		ConfirmationCode: session.ConfirmationCode,
		RoomNumber:       session.Room.Number,
		RoomType:         session.Room.Type,
		Nights:           session.Stay.Nights,
		WifiNetwork:      session.Wifi.Network,
		WifiPassword:     session.Wifi.Password,
		Language:         language,
		Status:           model.StatusCheckedIn,
		Source:           source,
		Metadata:         gModel.NewMetadata(timezone.Now(), user),
	}
}

type CheckInResponse struct {
	Session model.GuestSession `json:"session"`
	Token   *jwt.TokenPair     `json:"token,omitempty"`
}

type PreviewResponse struct {
	Session model.GuestSession `json:"session"`
}

type RegistrationResponse struct {
	ID               string `json:"id"`
	GuestID          string `json:"guest_id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	PartySize        string `json:"party_size"`
	Children         string `json:"children"`
	ArrivalDate      string `json:"arrival_date"`
	DepartureDate    string `json:"departure_date"`
	RoomPreference   string `json:"room_preference"`
	Transportation   string `json:"transportation"`
	Dietary          string `json:"dietary"`
	Remarks          string `json:"remarks"`
	RegisteredAt     string `json:"registered_at"`
	ConfirmationCode string `json:"confirmation_code"`
	RoomNumber       string `json:"room_number"`
	RoomType         string `json:"room_type"`
	Nights           int    `json:"nights"`
	Status           string `json:"status"`
	Source           string `json:"source"`
	CheckedOutAt     string `json:"checked_out_at,omitempty"`
	gDto.Metadata
}

func (r *RegistrationResponse) FromModel(model model.Registration) {
	r.ID = model.ID
	r.GuestID = model.GuestID
	r.Name = model.Name
	r.Email = model.Email
	r.Phone = model.Phone
	r.PartySize = model.PartySize
	r.Children = model.Children
	r.ArrivalDate = model.ArrivalDate
	r.DepartureDate = model.DepartureDate
	r.RoomPreference = model.RoomPreference
	r.Transportation = model.Transportation
	r.Dietary = model.Dietary
	r.Remarks = model.Remarks
	r.RegisteredAt = model.RegisteredAt
	r.ConfirmationCode = model.ConfirmationCode
	r.RoomNumber = model.RoomNumber
	r.RoomType = model.RoomType
	r.Nights = model.Nights
	r.Status = model.Status
	r.Source = model.Source

	if model.CheckedOutAt != nil {
		r.CheckedOutAt = timezone.Format(*model.CheckedOutAt, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetRegistrationsResponse struct {
	Registrations []RegistrationResponse `json:"registrations"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetRegistrationsResponse) FromModels(models []model.Registration, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Registrations = make([]RegistrationResponse, len(models))
	for i, mod := range models {
		r.Registrations[i].FromModel(mod)
	}
}

// CheckedInEvent is published once a registration has been stored.
type CheckedInEvent struct {
	GuestID          string              `json:"guest_id"`
	Name             string              `json:"name"`
	ConfirmationCode string              `json:"confirmation_code"`
	Room             roomModel.GuestRoom `json:"room"`
	Stay             model.GuestStay     `json:"stay"`
	PartySize        string              `json:"party_size,omitempty"`
	Transportation   string              `json:"transportation,omitempty"`
	Source           string              `json:"source,omitempty"`
	OccurredAt       string              `json:"occurred_at"`
}

func (e *CheckedInEvent) FromSession(session model.GuestSession, data model.RegisteredGuestData, source string) {
	e.GuestID = session.ID
	e.Name = session.Name
	e.ConfirmationCode = session.ConfirmationCode
	e.Room = session.Room
	e.Stay = session.Stay
	e.PartySize = data.PartySize
	e.Transportation = data.Transportation
	e.Source = source
	e.OccurredAt = timezone.Format(timezone.Now(), constant.DateFormat)
}

type CheckedOutEvent struct {
	GuestID    string `json:"guest_id"`
	RoomNumber string `json:"room_number"`
	OccurredAt string `json:"occurred_at"`
}
