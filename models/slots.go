package models

import "time"

// TimeSlot is a half-open interval [Start, End) describing one bookable
// session. Timestamps are timezone-aware and serialize as RFC 3339.
type TimeSlot struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// Valid reports whether the slot is a well-formed interval.
func (s TimeSlot) Valid() bool {
	return s.Start.Before(s.End)
}

// Overlaps reports whether two half-open intervals intersect:
// max(starts) < min(ends).
func (s TimeSlot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && start.Before(s.End)
}

// BusyInterval is an occupied stretch of the owner's calendar. Intervals
// coming from the calendar source may overlap each other; they are merged
// before use.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayAvailability groups the open slots of one calendar date for
// presentation by the conversational layer.
type DayAvailability struct {
	Date  string     `json:"date"` // "2006-01-02" in the engine timezone
	Slots []TimeSlot `json:"slots"`
}
