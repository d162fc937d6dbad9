package model

import (
	"time"

	roomModel "niseko/internal/domains/room/model"
	"niseko/shared/model"
)

const (
	TableName  = "guest_registrations"
	EntityName = "guest"

	FieldID               = "id"
	FieldGuestID          = "guest_id"
	FieldName             = "name"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldRoomNumber       = "room_number"
	FieldStatus           = "status"
	FieldCheckedOutAt     = "checked_out_at"
	FieldCreatedAt        = "created_at"
)

const (
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
)

const DefaultLanguage = "en"

// RegisteredGuestData is what the conversational check-in collects. Every field except
// GuestID and Name may be empty and dates are free text.
type RegisteredGuestData struct {
	GuestID        string `json:"guest_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PartySize      string `json:"party_size"`
	Children       string `json:"children"`
	ArrivalDate    string `json:"arrival_date"`
	DepartureDate  string `json:"departure_date"`
	RoomPreference string `json:"room_preference"`
	Transportation string `json:"transportation"`
	Dietary        string `json:"dietary"`
	Remarks        string `json:"remarks"`
	RegisteredAt   string `json:"registered_at"`
}

type GuestStay struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Nights   int    `json:"nights"`
}

type WifiCredentials struct {
	Network  string `json:"network"`
	Password string `json:"password"`
}

type Preferences struct {
	Language            string   `json:"language"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	SpecialRequests     []string `json:"special_requests"`
}

// GuestSession is the room portal's view of a checked-in guest.
type GuestSession struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Email            *string             `json:"email,omitempty"`
	Phone            *string             `json:"phone,omitempty"`
	ConfirmationCode string              `json:"confirmation_code"`
	Room             roomModel.GuestRoom `json:"room"`
	Stay             GuestStay           `json:"stay"`
	Wifi             WifiCredentials     `json:"wifi"`
	Preferences      *Preferences        `json:"preferences,omitempty"`
}

// Registration is a persisted check-in: the raw answers plus the session derived from them.
type Registration struct {
	ID               string     `db:"id"`
	GuestID          string     `db:"guest_id"`
	Name             string     `db:"name"`
	Email            string     `db:"email"`
	Phone            string     `db:"phone"`
	PartySize        string     `db:"party_size"`
	Children         string     `db:"children"`
	ArrivalDate      string     `db:"arrival_date"`
	DepartureDate    string     `db:"departure_date"`
	RoomPreference   string     `db:"room_preference"`
	Transportation   string     `db:"transportation"`
	Dietary          string     `db:"dietary"`
	Remarks          string     `db:"remarks"`
	RegisteredAt     string     `db:"registered_at"`
	ConfirmationCode string     `db:"confirmation_code"`
	RoomNumber       string     `db:"room_number"`
	RoomType         string     `db:"room_type"`
	Nights           int        `db:"nights"`
	WifiNetwork      string     `db:"wifi_network"`
	WifiPassword     string     `db:"wifi_password"`
	Language         string     `db:"language"`
	Status           string     `db:"status"`
	Source           string     `db:"source"`
	CheckedOutAt     *time.Time `db:"checked_out_at"`
	model.Metadata
}

// GuestData recovers the check-in answers stored on the record.
func (r Registration) GuestData() RegisteredGuestData {
	return RegisteredGuestData{
		GuestID:        r.GuestID,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		PartySize:      r.PartySize,
		Children:       r.Children,
		ArrivalDate:    r.ArrivalDate,
		DepartureDate:  r.DepartureDate,
		RoomPreference: r.RoomPreference,
		Transportation: r.Transportation,
		Dietary:        r.Dietary,
		Remarks:        r.Remarks,
		RegisteredAt:   r.RegisteredAt,
	}
}
