package analytics

import "time"

const (
	DefaultTopN        = 5
	DefaultTrendMonths = 6
)

type settings struct {
	projectID   string
	topN        int
	trendMonths int
	now         time.Time
}

type Option func(*settings)

// WithProject scopes the aggregation to a project, ProjectUnassigned or ProjectAll.
func WithProject(id string) Option {
	return func(s *settings) { s.projectID = id }
}

// WithTopN sets how many categories TopCategories keeps.
func WithTopN(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithTrendMonths sets the length of the trailing monthly trend window.
func WithTrendMonths(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.trendMonths = n
		}
	}
}

// WithNow fixes the reference time for the monthly trend window.
func WithNow(t time.Time) Option {
	return func(s *settings) { s.now = t }
}

func newSettings(opts []Option) settings {
	s := settings{
		topN:        DefaultTopN,
		trendMonths: DefaultTrendMonths,
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}
