package finance

import (
	"encoding/json"
	"strings"
)

// Frequency is how often a recurring expense is charged.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyOneTime Frequency = "one-time"
	FrequencyUnknown Frequency = "unknown"
)

// ParseFrequency maps s to a known frequency, falling back to FrequencyUnknown.
func ParseFrequency(s string) Frequency {
	switch f := Frequency(strings.ToLower(strings.TrimSpace(s))); f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly, FrequencyOneTime:
		return f
	case "one_time", "onetime", "once":
		return FrequencyOneTime
	}

	return FrequencyUnknown
}

func (f *Frequency) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*f = FrequencyUnknown
		return nil
	}

	*f = ParseFrequency(s)

	return nil
}

// Period is the span a budget allocation covers.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodUnknown Period = "unknown"
)

// ParsePeriod maps s to a known period, falling back to PeriodUnknown.
func ParsePeriod(s string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return p
	}

	return PeriodUnknown
}

// Frequency returns the charge frequency equivalent to the budget period.
func (p Period) Frequency() Frequency {
	switch p {
	case PeriodDaily:
		return FrequencyDaily
	case PeriodWeekly:
		return FrequencyWeekly
	case PeriodMonthly:
		return FrequencyMonthly
	case PeriodYearly:
		return FrequencyYearly
	}

	return FrequencyUnknown
}

func (p *Period) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*p = PeriodUnknown
		return nil
	}

	*p = ParsePeriod(s)

	return nil
}
