package dto_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niseko/internal/domains/guest/model"
	"niseko/internal/domains/guest/model/dto"
	"niseko/internal/domains/guest/session"
	gModel "niseko/shared/model"
	"niseko/shared/timezone"
	"niseko/shared/validator"
)

func TestCheckInRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CheckInRequest
		wantErr bool
	}{
		{
			name:    "minimal request",
			req:     dto.CheckInRequest{GuestID: "g-1", Name: "Hana"},
			wantErr: false,
		},
		{
			name:    "missing guest id",
			req:     dto.CheckInRequest{Name: "Hana"},
			wantErr: true,
		},
		{
			name:    "blank name",
			req:     dto.CheckInRequest{GuestID: "g-1", Name: "   "},
			wantErr: true,
		},
		{
			name:    "invalid email",
			req:     dto.CheckInRequest{GuestID: "g-1", Name: "Hana", Email: "not-an-email"},
			wantErr: true,
		},
		{
			name:    "valid email",
			req:     dto.CheckInRequest{GuestID: "g-1", Name: "Hana", Email: "hana@example.com"},
			wantErr: false,
		},
		{
			name:    "browser date string",
			req:     dto.CheckInRequest{GuestID: "g-1", Name: "Hana", RegisteredAt: "Mon Jan 02 2026 10:00:00 GMT+0900 (Japan Standard Time)"},
			wantErr: false,
		},
		{
			name:    "registered at too long",
			req:     dto.CheckInRequest{GuestID: "g-1", Name: "Hana", RegisteredAt: strings.Repeat("x", 101)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckInRequest_ToGuestData(t *testing.T) {
	req := dto.CheckInRequest{
		GuestID:        "g-1",
		Name:           "Hana Sato",
		Email:          "hana@example.com",
		ArrivalDate:    "2025-12-20",
		DepartureDate:  "2025-12-23",
		RoomPreference: "onsen please",
		Dietary:        "vegetarian",
	}

	data := req.ToGuestData()

	assert.Equal(t, "g-1", data.GuestID)
	assert.Equal(t, "Hana Sato", data.Name)
	assert.Equal(t, "hana@example.com", data.Email)
	assert.Equal(t, "2025-12-20", data.ArrivalDate)
	assert.Equal(t, "2025-12-23", data.DepartureDate)
	assert.Equal(t, "onsen please", data.RoomPreference)
	assert.Equal(t, "vegetarian", data.Dietary)
}

func TestNewRegistration(t *testing.T) {
	data := model.RegisteredGuestData{
		GuestID:        "g-1",
		Name:           "Hana Sato",
		ArrivalDate:    "2025-12-20",
		DepartureDate:  "2025-12-23",
		RoomPreference: "onsen",
		RegisteredAt:   "2025-12-01T09:00:00Z",
	}
	sess := session.RegistrationToSession(data)

	reg := dto.NewRegistration(data, sess, "mobile/Safari", "g-1")

	assert.NotEmpty(t, reg.ID)
	assert.Equal(t, "g-1", reg.GuestID)
	assert.Equal(t, sess.ConfirmationCode, reg.ConfirmationCode)
	assert.Equal(t, "301", reg.RoomNumber)
	assert.Equal(t, "Premium Onsen Suite", reg.RoomType)
	assert.Equal(t, 3, reg.Nights)
	assert.Equal(t, sess.Wifi.Network, reg.WifiNetwork)
	assert.Equal(t, sess.Wifi.Password, reg.WifiPassword)
	assert.Equal(t, model.DefaultLanguage, reg.Language)
	assert.Equal(t, model.StatusCheckedIn, reg.Status)
	assert.Equal(t, "mobile/Safari", reg.Source)
	assert.Equal(t, "2025-12-01T09:00:00Z", reg.RegisteredAt)
	assert.Equal(t, "g-1", reg.CreatedBy)
	assert.False(t, reg.CreatedAt.IsZero())
	assert.Nil(t, reg.CheckedOutAt)
}

func TestNewRegistration_DefaultsRegisteredAt(t *testing.T) {
	data := model.RegisteredGuestData{GuestID: "g-2", Name: "Ken"}

	reg := dto.NewRegistration(data, session.RegistrationToSession(data), "", "g-2")

	_, err := time.Parse(time.RFC3339, reg.RegisteredAt)
	require.NoError(t, err)
}

func TestRegistrationResponse_FromModel(t *testing.T) {
	now := timezone.Now()
	checkedOut := now.Add(time.Hour)

	reg := model.Registration{
		ID:               "id-1",
		GuestID:          "g-1",
		Name:             "Hana",
		ConfirmationCode: "NIS-ABC123",
		RoomNumber:       "205",
		RoomType:         "Deluxe Room",
		Nights:           2,
		Status:           model.StatusCheckedOut,
		CheckedOutAt:     &checkedOut,
		Metadata:         gModel.NewMetadata(now, "g-1"),
	}

	var res dto.RegistrationResponse
	res.FromModel(reg)

	assert.Equal(t, "id-1", res.ID)
	assert.Equal(t, "g-1", res.GuestID)
	assert.Equal(t, "NIS-ABC123", res.ConfirmationCode)
	assert.Equal(t, "205", res.RoomNumber)
	assert.Equal(t, 2, res.Nights)
	assert.Equal(t, model.StatusCheckedOut, res.Status)
	assert.NotEmpty(t, res.CheckedOutAt)
	assert.Equal(t, "g-1", res.CreatedBy)
}

func TestGetRegistrationsResponse_FromModels(t *testing.T) {
	models := []model.Registration{
		{ID: "1", GuestID: "g-1", Status: model.StatusCheckedIn},
		{ID: "2", GuestID: "g-2", Status: model.StatusCheckedIn},
	}

	var res dto.GetRegistrationsResponse
	res.FromModels(models, 12, 5)

	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
	assert.Len(t, res.Registrations, 2)
	assert.Equal(t, "g-2", res.Registrations[1].GuestID)
	assert.Empty(t, res.Registrations[0].CheckedOutAt)
}

func TestCheckedInEvent_FromSession(t *testing.T) {
	data := model.RegisteredGuestData{
		GuestID:        "g-1",
		Name:           "Hana",
		PartySize:      "2",
		Transportation: "airport shuttle",
	}
	sess := session.RegistrationToSession(data)

	var event dto.CheckedInEvent
	event.FromSession(sess, data, "desktop/Chrome")

	assert.Equal(t, "g-1", event.GuestID)
	assert.Equal(t, sess.ConfirmationCode, event.ConfirmationCode)
	assert.Equal(t, sess.Room, event.Room)
	assert.Equal(t, "2", event.PartySize)
	assert.Equal(t, "airport shuttle", event.Transportation)
	assert.Equal(t, "desktop/Chrome", event.Source)
	assert.NotEmpty(t, event.OccurredAt)
}
