package session

import (
	"niseko/config"
	"niseko/internal/domains/room/catalog"
	"niseko/shared/dateparse"
	"niseko/shared/timezone"
)

// ForHotel returns the builder the API issues sessions with: stay dates resolve in the
// hotel timezone and the guest network comes from configuration. Extra options apply last.
func ForHotel(cfg *config.Config, rooms *catalog.Catalog, opts ...Option) *Builder {
	base := []Option{
		WithCatalog(rooms),
		WithDateParser(dateparse.New(
			dateparse.WithLocation(timezone.GetLocation()),
			dateparse.WithClock(timezone.Now),
		)),
		WithWifiNetwork(cfg.Guest.WifiNetwork),
	}

	return NewBuilder(append(base, opts...)...)
}
