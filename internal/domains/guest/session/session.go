// Package session derives a guest's portal session from their check-in answers.
//
// Building never fails: unreadable dates fall back to the current time, impossible stays
// become one night, unknown room preferences get the standard room and empty contact
// details are dropped.
package session

import (
	"math"
	"time"

	"niseko/internal/domains/guest/model"
	"niseko/internal/domains/room/catalog"
	"niseko/shared/credential"
	"niseko/shared/dateparse"
)

// DefaultWifiNetwork is the guest SSID used when none is configured.
const DefaultWifiNetwork = "The1898-Niseko-Guest"

const day = 24 * time.Hour

// Builder is stateless apart from its collaborators and may be shared across goroutines.
type Builder struct {
	dates       *dateparse.Parser
	rooms       *catalog.Catalog
	credentials *credential.Generator
	wifiNetwork string
}

type Option func(*Builder)

func WithDateParser(p *dateparse.Parser) Option {
	return func(b *Builder) {
		if p != nil {
			b.dates = p
		}
	}
}

func WithCatalog(c *catalog.Catalog) Option {
	return func(b *Builder) {
		if c != nil {
			b.rooms = c
		}
	}
}

func WithCredentials(g *credential.Generator) Option {
	return func(b *Builder) {
		if g != nil {
			b.credentials = g
		}
	}
}

// WithWifiNetwork overrides the SSID; empty keeps DefaultWifiNetwork.
func WithWifiNetwork(network string) Option {
	return func(b *Builder) {
		if network != "" {
			b.wifiNetwork = network
		}
	}
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		dates:       dateparse.New(),
		rooms:       catalog.Default(),
		credentials: credential.New(),
		wifiNetwork: DefaultWifiNetwork,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

var defaultBuilder = NewBuilder()

// RegistrationToSession builds a session with the default collaborators.
func RegistrationToSession(reg model.RegisteredGuestData) model.GuestSession {
	return defaultBuilder.Build(reg)
}

// Build derives a fresh session. The confirmation code and Wi-Fi password are generated
// anew on every call.
func (b *Builder) Build(reg model.RegisteredGuestData) model.GuestSession {
	arrival := b.dates.Parse(reg.ArrivalDate)
	departure := b.dates.Parse(reg.DepartureDate)

	return model.GuestSession{
		ID:               reg.GuestID,
		Name:             reg.Name,
		Email:            optional(reg.Email),
		Phone:            optional(reg.Phone),
		ConfirmationCode: b.credentials.ConfirmationCode(),
		Room:             b.rooms.Assign(reg.RoomPreference),
		Stay: model.GuestStay{
			CheckIn:  reg.ArrivalDate,
			CheckOut: reg.DepartureDate,
			Nights:   Nights(arrival, departure),
		},
		Wifi: model.WifiCredentials{
			Network:  b.wifiNetwork,
			Password: b.credentials.WifiPassword(),
		},
		Preferences: &model.Preferences{
			Language:            model.DefaultLanguage,
			DietaryRestrictions: single(reg.Dietary),
			SpecialRequests:     single(reg.Remarks),
		},
	}
}

// Restore rebuilds the session stored on a registration without generating new credentials.
// A room number missing from the catalog is shown with the standard room's details.
func (b *Builder) Restore(rec model.Registration) model.GuestSession {
	room, ok := b.rooms.ByNumber(rec.RoomNumber)
	if !ok {
		room = b.rooms.Standard()
		if rec.RoomNumber != "" {
			room.Number = rec.RoomNumber
		}

		if rec.RoomType != "" {
			room.Type = rec.RoomType
		}
	}

	language := rec.Language
	if language == "" {
		language = model.DefaultLanguage
	}

	return model.GuestSession{
		ID:               rec.GuestID,
		Name:             rec.Name,
		Email:            optional(rec.Email),
		Phone:            optional(rec.Phone),
		ConfirmationCode: rec.ConfirmationCode,
		Room:             room,
		Stay: model.GuestStay{
			CheckIn:  rec.ArrivalDate,
			CheckOut: rec.DepartureDate,
			Nights:   max(rec.Nights, 1),
		},
		Wifi: model.WifiCredentials{
			Network:  rec.WifiNetwork,
			Password: rec.WifiPassword,
		},
		Preferences: &model.Preferences{
			Language:            language,
			DietaryRestrictions: single(rec.Dietary),
			SpecialRequests:     single(rec.Remarks),
		},
	}
}

// Nights counts started days between arrival and departure and is never below one.
// A zero time on either side yields one night.
func Nights(arrival, departure time.Time) int {
	if arrival.IsZero() || departure.IsZero() {
		return 1
	}

	nights := int(math.Ceil(float64(departure.Sub(arrival)) / float64(day)))

	return max(nights, 1)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}

func single(value string) []string {
	if value == "" {
		return []string{}
	}

	return []string{value}
}
