// Package credential issues the short, human-typeable codes handed to guests at check-in.
// Neither value is suitable as a secret: the Wi-Fi password only gates the guest network
// and the confirmation code is a time-based booking reference.
package credential

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	WifiPasswordPrefix     = "NISEKO"
	WifiPasswordSuffixLen  = 4
	ConfirmationCodePrefix = "NIS-"
	confirmationCodeLen    = 6

	// Alphabet leaves out I, O, 0 and 1.
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Generator is safe for concurrent use as long as the injected sources are.
type Generator struct {
	now  func() time.Time
	intn func(n int) int
}

type Option func(*Generator)

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithRandom replaces the source of uniform indexes in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(g *Generator) {
		if intn != nil {
			g.intn = intn
		}
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{now: time.Now, intn: rand.IntN}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// WifiPassword returns "NISEKO" followed by four characters drawn with replacement from Alphabet.
func (g *Generator) WifiPassword() string {
	var b strings.Builder

	b.Grow(len(WifiPasswordPrefix) + WifiPasswordSuffixLen)
	b.WriteString(WifiPasswordPrefix)

	for range WifiPasswordSuffixLen {
		b.WriteByte(Alphabet[g.intn(len(Alphabet))])
	}

	return b.String()
}

// ConfirmationCode returns "NIS-" and the last six base-36 digits of the Unix millisecond clock.
func (g *Generator) ConfirmationCode() string {
	encoded := strings.ToUpper(strconv.FormatInt(g.now().UnixMilli(), 36))
	if len(encoded) > confirmationCodeLen {
		encoded = encoded[len(encoded)-confirmationCodeLen:]
	}

	return ConfirmationCodePrefix + encoded
}
