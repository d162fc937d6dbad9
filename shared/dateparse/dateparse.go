// Package dateparse turns the loose date expressions collected during voice check-in
// ("2025-12-20", "Dec 20, 2025", "january 2nd") into calendar dates.
//
// Parsing never fails. Inputs are tried, in order, as an exact ISO date, against a list of
// common full-date layouts, as "<month> <day>[suffix][, <year>]" text, and finally fall back
// to the current time.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDate   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	humanDate = regexp.MustCompile(`([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4}))?`)
)

// layouts only holds formats that carry a year.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"Mon, 2 Jan 2006",
	"Monday, January 2, 2006",
	"Mon Jan 2 2006",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02 Jan 2006",
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Parser is safe for concurrent use.
type Parser struct {
	loc *time.Location
	now func() time.Time
}

type Option func(*Parser)

// WithLocation sets the zone calendar dates are built in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithClock replaces time.Now for the current-year default and the fallback.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{loc: time.UTC, now: time.Now}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

var defaultParser = New()

// ParseFlexible parses value with the default UTC parser.
func ParseFlexible(value string) time.Time {
	return defaultParser.Parse(value)
}

func (p *Parser) Parse(value string) time.Time {
	value = strings.TrimSpace(value)

	if t, ok := p.parseISO(value); ok {
		return t
	}

	if t, ok := p.parseLayouts(value); ok {
		return t
	}

	if t, ok := p.parseHuman(value); ok {
		return t
	}

	return p.now().In(p.loc)
}

func (p *Parser) parseISO(value string) (time.Time, bool) {
	match := isoDate.FindStringSubmatch(value)
	if match == nil {
		return time.Time{}, false
	}

	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, p.loc), true
}

func (p *Parser) parseLayouts(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, p.loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func (p *Parser) parseHuman(value string) (time.Time, bool) {
	for _, match := range humanDate.FindAllStringSubmatch(strings.ToLower(value), -1) {
		month, ok := months[match[1]]
		if !ok {
			continue
		}

		day, _ := strconv.Atoi(match[2])
		if day < 1 || day > 31 {
			continue
		}

		year := p.now().In(p.loc).Year()
		if match[3] != "" {
			year, _ = strconv.Atoi(match[3])
		}

		return time.Date(year, month, day, 0, 0, 0, 0, p.loc), true
	}

	return time.Time{}, false
}
