package dto

import "niseko/internal/domains/room/model"

type RoomResponse struct {
	Key      string   `json:"key"`
	Number   string   `json:"number"`
	Type     string   `json:"type"`
	Floor    int      `json:"floor"`
	Features []string `json:"features"`
}

func (r *RoomResponse) FromEntry(entry model.Entry) {
	r.Key = entry.Key
	r.Number = entry.Room.Number
	r.Type = entry.Room.Type
	r.Floor = entry.Room.Floor
	r.Features = entry.Room.Features
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromEntries(entries []model.Entry) {
	r.TotalData = len(entries)

	r.Rooms = make([]RoomResponse, len(entries))
	for i, entry := range entries {
		r.Rooms[i].FromEntry(entry)
	}
}

type MatchResponse struct {
	Preference string       `json:"preference"`
	Matched    bool         `json:"matched"`
	Room       RoomResponse `json:"room"`
}
