package timezone_test

import (
	"testing"
	"time"

	"niseko/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.False(t, now.IsZero())
	assert.Equal(t, timezone.GetLocation(), now.Location())
}

func TestParseAndFormat(t *testing.T) {
	parsed, err := timezone.Parse("2006-01-02", "2025-12-20")
	require.NoError(t, err)

	assert.Equal(t, timezone.GetLocation(), parsed.Location())
	assert.Equal(t, "2025-12-20", timezone.Format(parsed, "2006-01-02"))
	assert.Empty(t, timezone.Format(time.Time{}, time.RFC3339))
}

func TestStartOfDay(t *testing.T) {
	parsed, err := timezone.Parse("2006-01-02 15:04", "2025-12-20 18:45")
	require.NoError(t, err)

	start := timezone.StartOfDay(parsed)

	assert.Equal(t, "2025-12-20 00:00", timezone.Format(start, "2006-01-02 15:04"))
}
