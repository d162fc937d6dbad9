package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niseko/infras/otel/mocks"
	"niseko/internal/domains/room/catalog"
	"niseko/internal/domains/room/service"
	"niseko/shared/failure"
)

func newService() service.Room {
	return service.New(catalog.Default(), mocks.NewOtel())
}

func TestRoomService_GetAll(t *testing.T) {
	res := newService().GetAll(context.Background())

	require.Len(t, res.Rooms, 5)
	assert.Equal(t, 5, res.TotalData)
	assert.Equal(t, "mountain view", res.Rooms[0].Key)
	assert.Equal(t, "501", res.Rooms[0].Number)
	assert.Equal(t, "standard", res.Rooms[4].Key)
}

func TestRoomService_Get(t *testing.T) {
	svc := newService()

	room, err := svc.Get(context.Background(), "801")
	require.NoError(t, err)
	assert.Equal(t, "Sky Penthouse", room.Type)
	assert.Equal(t, "sky", room.Key)

	_, err = svc.Get(context.Background(), "999")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestRoomService_Match(t *testing.T) {
	tests := []struct {
		name        string
		preference  string
		wantNumber  string
		wantMatched bool
	}{
		{name: "onsen", preference: "We'd love an ONSEN", wantNumber: "301", wantMatched: true},
		{name: "mountain view beats garden", preference: "garden or mountain view", wantNumber: "501", wantMatched: true},
		{name: "unknown", preference: "something quiet", wantNumber: "205", wantMatched: false},
		{name: "empty", preference: "", wantNumber: "205", wantMatched: false},
		{name: "explicit standard", preference: "standard is fine", wantNumber: "205", wantMatched: true},
	}

	svc := newService()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.Match(context.Background(), tt.preference)

			assert.Equal(t, tt.preference, res.Preference)
			assert.Equal(t, tt.wantNumber, res.Room.Number)
			assert.Equal(t, tt.wantMatched, res.Matched)
		})
	}
}
