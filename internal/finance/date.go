package finance

import (
	"encoding/json"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
	"02-01-2006",
	"02/01/2006",
}

// Date is a calendar timestamp that tolerates malformed input.
// A zero Date means the source value could not be parsed; such entities are
// left out of time-bucketed views but still count towards totals.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate tries every supported layout and returns the zero Date when none match.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}
		}
	}

	return Date{}
}

func (d Date) Valid() bool {
	return !d.IsZero()
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*d = Date{}
		return nil
	}

	*d = ParseDate(s)

	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return []byte("null"), nil
	}

	return json.Marshal(d.Format(time.RFC3339))
}
