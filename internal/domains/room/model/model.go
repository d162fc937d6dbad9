package model

import "slices"

// KeyStandard is the catalog key every unmatched preference falls back to.
const KeyStandard = "standard"

// GuestRoom is the room record shown on the guest portal.
type GuestRoom struct {
	Number   string   `json:"number"   yaml:"number"`
	Type     string   `json:"type"     yaml:"type"`
	Floor    int      `json:"floor"    yaml:"floor"`
	Features []string `json:"features" yaml:"features"`
}

// Clone returns a copy that shares no memory with r.
func (r GuestRoom) Clone() GuestRoom {
	r.Features = slices.Clone(r.Features)
	if r.Features == nil {
		r.Features = []string{}
	}

	return r
}

// Entry binds a preference keyword to its room.
type Entry struct {
	Key  string    `yaml:"key"`
	Room GuestRoom `yaml:"room"`
}
