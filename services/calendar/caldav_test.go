package calendar

import (
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookflow/models"
)

func TestBuildEventCalendar(t *testing.T) {
	start := time.Date(2026, time.March, 3, 18, 0, 0, 0, time.UTC)
	slot := models.TimeSlot{Start: start, End: start.Add(30 * time.Minute)}

	cal := buildEventCalendar("uid-1", slot, "Consultation", "Kitchen remodel", []string{"alice@example.com", "bob@example.com"})

	assert.Equal(t, "2.0", cal.Props.Get(ical.PropVersion).Value)
	require.Len(t, cal.Children, 1)

	event := cal.Children[0]
	require.Equal(t, ical.CompEvent, event.Name)
	assert.Equal(t, "uid-1", event.Props.Get(ical.PropUID).Value)
	assert.Equal(t, "Consultation", event.Props.Get(ical.PropSummary).Value)
	assert.Equal(t, "Kitchen remodel", event.Props.Get(ical.PropDescription).Value)

	ev := ical.Event{Component: event}
	gotStart, err := ev.DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.True(t, gotStart.Equal(slot.Start))
	gotEnd, err := ev.DateTimeEnd(time.UTC)
	require.NoError(t, err)
	assert.True(t, gotEnd.Equal(slot.End))

	attendees := event.Props[ical.PropAttendee]
	require.Len(t, attendees, 2)
	assert.Equal(t, "mailto:alice@example.com", attendees[0].Value)
	assert.Equal(t, "mailto:bob@example.com", attendees[1].Value)
}

func TestBuildEventCalendarWithoutOptionalParts(t *testing.T) {
	start := time.Date(2026, time.March, 3, 18, 0, 0, 0, time.UTC)
	slot := models.TimeSlot{Start: start, End: start.Add(30 * time.Minute)}

	cal := buildEventCalendar("uid-2", slot, "Consultation", "", nil)

	event := cal.Children[0]
	assert.Nil(t, event.Props.Get(ical.PropDescription))
	assert.Empty(t, event.Props[ical.PropAttendee])
}
