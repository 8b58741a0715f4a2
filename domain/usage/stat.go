// Package usage provides per-user per-day usage aggregation.
// All functions are pure; persistence lives behind ports.UsageStore.
package usage

import (
	"fmt"
	"time"
)

// Kind identifies the operation being accounted.
type Kind string

const (
	KindHumanize Kind = "humanize"
	KindDetect   Kind = "detect"
)

// Day is a calendar date key (value type with equality).
// The storage schema keeps the three integer columns, but everything
// above the store works with a single value.
type Day struct {
	Year  int
	Month int
	Day   int
}

// DayOf returns the calendar day of t in UTC.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return Day{Year: u.Year(), Month: int(u.Month()), Day: u.Day()}
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return DayOf(t.AddDate(0, 0, 1))
}

// Stat is the aggregate record for one (user, day) pair.
// Exactly one record exists per pair; counters only ever grow within a day.
type Stat struct {
	ID                  string
	UserID              string
	Date                Day
	HumanizeRequests    int
	DetectRequests      int
	WordsProcessed      int
	TotalProcessingTime float64 // seconds
	UpdatedAt           time.Time
}

// Apply folds one completed operation into the aggregate.
// This is a PURE function - the caller persists the result.
func Apply(s Stat, kind Kind, wordCount int, processingSecs float64, now time.Time) Stat {
	switch kind {
	case KindHumanize:
		s.HumanizeRequests++
	case KindDetect:
		s.DetectRequests++
	}
	s.WordsProcessed += wordCount
	s.TotalProcessingTime += processingSecs
	s.UpdatedAt = now
	return s
}

// TotalRequests returns the combined request count for the day.
func (s Stat) TotalRequests() int {
	return s.HumanizeRequests + s.DetectRequests
}
