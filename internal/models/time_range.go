package models

import (
	"time"

	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
)

// TimeRange is an inclusive [From, To] analytics window.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the window, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Duration returns the window length.
func (r TimeRange) Duration() time.Duration {
	return r.To.Sub(r.From)
}

// Previous returns the window of equal length that ends just before From.
func (r TimeRange) Previous() TimeRange {
	end := r.From.Add(-time.Nanosecond)
	return TimeRange{From: end.Add(-r.Duration()), To: end}
}

// Key renders a stable representation used for cache keys and alert ids.
func (r TimeRange) Key() string {
	return r.From.UTC().Format(time.RFC3339) + "_" + r.To.UTC().Format(time.RFC3339)
}

// NormalizeRange resolves a requested window against now. A nil request yields the
// trailing defaultMonths; a future To is clamped to now and a zero From defaults to
// To minus defaultMonths. The result must satisfy From < To.
func NormalizeRange(requested *TimeRange, now time.Time, defaultMonths int) (TimeRange, error) {
	if defaultMonths <= 0 {
		defaultMonths = 12
	}
	now = now.UTC()
	if requested == nil {
		return TimeRange{From: now.AddDate(0, -defaultMonths, 0), To: now}, nil
	}

	r := TimeRange{From: requested.From.UTC(), To: requested.To.UTC()}
	if r.To.IsZero() || r.To.After(now) {
		r.To = now
	}
	if r.From.IsZero() {
		r.From = r.To.AddDate(0, -defaultMonths, 0)
	}
	if !r.From.Before(r.To) {
		return TimeRange{}, appErrors.Clone(appErrors.ErrInvalidRange, "from must be before to")
	}
	return r, nil
}
