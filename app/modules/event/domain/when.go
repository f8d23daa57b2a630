package eventdomain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var (
	ErrInvalidTimezone = errors.New("invalid timezone")
	ErrUnrecognized    = errors.New("could not recognize a date or time")
	ErrNotInFuture     = errors.New("start time must be in the future")
)

// timezoneAliases maps common abbreviations to IANA zones.
var timezoneAliases = map[string]string{
	"UTC": "UTC",
	"GMT": "UTC",
	"PST": "America/Los_Angeles",
	"PDT": "America/Los_Angeles",
	"MST": "America/Denver",
	"MDT": "America/Denver",
	"CST": "America/Chicago",
	"CDT": "America/Chicago",
	"EST": "America/New_York",
	"EDT": "America/New_York",
	"BRT": "America/Sao_Paulo",
}

var compactTime = regexp.MustCompile(`\b(\d{1,2})(\d{2})(am|pm)\b`)

// LoadTimezone resolves an IANA name or a known abbreviation. Empty means UTC.
func LoadTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	if alias, ok := timezoneAliases[strings.ToUpper(name)]; ok {
		name = alias
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// StartParser turns user input into an absolute start time.
type StartParser struct {
	parser *when.Parser
	clock  Clock
}

// NewStartParser builds a parser with the English and common rule sets.
func NewStartParser(clock Clock) *StartParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &StartParser{parser: w, clock: clock}
}

// Parse accepts RFC3339 or a phrase such as "next saturday at 9am",
// interpreted in timezone. The result is UTC, truncated to the minute, and
// must be after now.
func (p *StartParser) Parse(input, timezone string) (time.Time, error) {
	loc, err := LoadTimezone(timezone)
	if err != nil {
		return time.Time{}, err
	}
	now := p.clock.Now().In(loc)

	input = strings.TrimSpace(input)
	start, err := time.Parse(time.RFC3339, input)
	if err != nil {
		normalized := strings.ToLower(input)
		normalized = strings.ReplaceAll(normalized, "today ", "today at ")
		normalized = compactTime.ReplaceAllString(normalized, "$1:$2 $3")

		r, perr := p.parser.Parse(normalized, now)
		if perr != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrUnrecognized, perr)
		}
		if r == nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, input)
		}
		start = r.Time
	}

	start = start.In(time.UTC).Truncate(time.Minute)
	if !start.After(now.Truncate(time.Minute)) {
		return time.Time{}, fmt.Errorf("%w (parsed %s)", ErrNotInFuture, start.Format(time.RFC3339))
	}
	return start, nil
}

// ReminderAt is when a reminder for an event starting at start should fire,
// or false when that moment has already passed.
func ReminderAt(start time.Time, lead time.Duration, now time.Time) (time.Time, bool) {
	at := start.Add(-lead)
	if !at.After(now) {
		return time.Time{}, false
	}
	return at, true
}
