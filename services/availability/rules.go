package availability

import (
	"fmt"
	"time"

	"bookflow/models"
)

// Rules are the owner-configured constraints on when consultations may be
// offered: which weekdays, which wall-clock window on those days, and how
// long one session lasts. All slot arithmetic happens in Location so that
// wall-clock times stay put across daylight-saving transitions.
type Rules struct {
	SlotDuration    time.Duration
	AllowedWeekdays map[time.Weekday]bool
	DayWindowStart  int // minutes from midnight, e.g. 1080 for 18:00
	DayWindowEnd    int // minutes from midnight, e.g. 1140 for 19:00
	Location        *time.Location
}

// Validate checks the rules themselves; a violation is a caller error, not a
// scheduling outcome.
func (r Rules) Validate() error {
	if r.SlotDuration <= 0 {
		return fmt.Errorf("%w: slot duration must be positive", ErrInvalidWindow)
	}
	if r.DayWindowStart < 0 || r.DayWindowEnd > 24*60 || r.DayWindowStart >= r.DayWindowEnd {
		return fmt.Errorf("%w: daily window %d-%d is not a valid range", ErrInvalidWindow, r.DayWindowStart, r.DayWindowEnd)
	}
	if r.Location == nil {
		return fmt.Errorf("%w: missing timezone", ErrInvalidWindow)
	}
	return nil
}

// Allows reports whether the slot is one Generate could have produced: an
// allowed weekday, the configured duration, and a grid-aligned start inside
// the daily window. A slot that merely has the right length is not enough; a
// misaligned start would overlap two generated slots at once.
func (r Rules) Allows(slot models.TimeSlot) bool {
	if !slot.Valid() || slot.End.Sub(slot.Start) != r.SlotDuration {
		return false
	}
	start := slot.Start.In(r.Location)
	if !r.AllowedWeekdays[start.Weekday()] {
		return false
	}
	if start.Second() != 0 || start.Nanosecond() != 0 {
		return false
	}
	startMin := start.Hour()*60 + start.Minute()
	slotMin := int(r.SlotDuration / time.Minute)
	if startMin < r.DayWindowStart || startMin+slotMin > r.DayWindowEnd {
		return false
	}
	return (startMin-r.DayWindowStart)%slotMin == 0
}

// ParseWeekdays converts weekday names ("Tuesday", "Thursday") into the set
// used by Rules. Unknown names are rejected.
func ParseWeekdays(names []string) (map[time.Weekday]bool, error) {
	byName := map[string]time.Weekday{
		"Sunday": time.Sunday, "Monday": time.Monday, "Tuesday": time.Tuesday,
		"Wednesday": time.Wednesday, "Thursday": time.Thursday,
		"Friday": time.Friday, "Saturday": time.Saturday,
	}
	out := make(map[time.Weekday]bool, len(names))
	for _, n := range names {
		wd, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", n)
		}
		out[wd] = true
	}
	return out, nil
}

// ParseClock converts "18:00" into minutes from midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return h*60 + m, nil
}
