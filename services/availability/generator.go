package availability

import (
	"errors"
	"time"

	"bookflow/models"
)

// ErrInvalidWindow marks caller errors: a bad search window, a non-positive
// slot duration, or malformed rules.
var ErrInvalidWindow = errors.New("invalidWindow")

// Generate computes every bookable slot inside [windowStart, windowEnd),
// grouped by calendar date in the rules' timezone.
//
// Candidates are enumerated per allowed weekday by stepping through the
// daily window in whole slot increments; a trailing partial slot is dropped.
// Candidates in the past (start < now) or overlapping any merged busy
// interval are discarded. An inverted window yields an empty result rather
// than an error.
func Generate(rules Rules, windowStart, windowEnd, now time.Time, busy []models.BusyInterval) ([]models.DayAvailability, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if !windowEnd.After(windowStart) {
		return []models.DayAvailability{}, nil
	}
	if len(rules.AllowedWeekdays) == 0 {
		return []models.DayAvailability{}, nil
	}

	merged := Merge(busy)
	loc := rules.Location
	slotMin := int(rules.SlotDuration / time.Minute)

	var days []models.DayAvailability

	start := windowStart.In(loc)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	for ; day.Before(windowEnd); day = day.AddDate(0, 0, 1) {
		if !rules.AllowedWeekdays[day.Weekday()] {
			continue
		}

		var slots []models.TimeSlot
		for m := rules.DayWindowStart; m+slotMin <= rules.DayWindowEnd; m += slotMin {
			// time.Date keeps the wall clock stable across DST shifts.
			slotStart := time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, loc)
			slot := models.TimeSlot{Start: slotStart, End: slotStart.Add(rules.SlotDuration)}

			if slot.Start.Before(windowStart) || slot.End.After(windowEnd) {
				continue
			}
			if slot.Start.Before(now) {
				continue
			}
			if overlapsAny(merged, slot) {
				continue
			}
			slots = append(slots, slot)
		}

		if len(slots) > 0 {
			days = append(days, models.DayAvailability{
				Date:  day.Format("2006-01-02"),
				Slots: slots,
			})
		}
	}

	return days, nil
}

// Flatten returns the slots of a day-grouped result in chronological order.
func Flatten(days []models.DayAvailability) []models.TimeSlot {
	var out []models.TimeSlot
	for _, d := range days {
		out = append(out, d.Slots...)
	}
	return out
}
