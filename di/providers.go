package di

import (
	"niseko/config"
	"niseko/internal/domains/guest/session"
	"niseko/internal/domains/room/catalog"
)

// provideSessionBuilder shares the room catalog with the room service.
func provideSessionBuilder(cfg *config.Config, rooms *catalog.Catalog) *session.Builder {
	return session.ForHotel(cfg, rooms)
}
