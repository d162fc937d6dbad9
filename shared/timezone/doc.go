// Package timezone pins every timestamp of the service to the hotel's timezone.
//
// The zone comes from APP_TIMEZONE (IANA names such as "Asia/Tokyo") and is resolved
// once when the package is imported; unknown names fall back to UTC.
//
//	now := timezone.Now()
//	t, err := timezone.Parse("2006-01-02", "2025-12-20")
//	label := timezone.Format(t, time.RFC3339)
package timezone
