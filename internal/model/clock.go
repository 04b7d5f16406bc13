package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Clock is a time of day with minute precision. The zero value is midnight.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM". Seconds and anything after them are ignored,
// so values coming straight out of a TIME column also parse.
func ParseClock(s string) (Clock, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return Clock{}, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("clock %q out of range", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Decimal returns the clock as a decimal hour, e.g. 9:30 -> 9.5.
func (c Clock) Decimal() float64 {
	return float64(c.Hour) + float64(c.Minute)/60
}

// ClockFromDecimal converts a decimal hour back to a clock. Rounding may
// carry the minute into the next hour; a result of 24:00 or beyond wraps
// to midnight.
func ClockFromDecimal(d float64) Clock {
	hour := int(math.Floor(d))
	minute := int(math.Round((d - float64(hour)) * 60))
	if minute == 60 {
		minute = 0
		hour++
	}
	if hour >= 24 {
		hour = 0
		minute = 0
	}
	return Clock{Hour: hour, Minute: minute}
}

// Display formats the clock on a 12-hour dial with AM/PM. Hour 24 is the
// end-of-day sentinel and renders as "12:00 AM" like hour 0.
func Display(hour, minute int) string {
	displayHour := hour
	suffix := "AM"
	switch {
	case hour == 0 && minute == 0, hour == 24 && minute == 0:
		displayHour = 12
	default:
		if hour >= 12 {
			suffix = "PM"
		}
		displayHour = hour % 12
		if displayHour == 0 {
			displayHour = 12
		}
	}
	return fmt.Sprintf("%02d:%02d %s", displayHour, minute, suffix)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

func (c *Clock) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
