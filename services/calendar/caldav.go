package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookflow/models"
)

// CalDAVSource reads busy intervals from and writes consultation events to a
// CalDAV calendar (Nextcloud, Fastmail, Apple Calendar, ...).
type CalDAVSource struct {
	baseURL      string
	username     string
	password     string
	calendarPath string // explicit calendar path; discovered when empty
	logger       *zap.Logger
}

// NewCalDAVSource builds a CalDAV-backed calendar source.
func NewCalDAVSource(baseURL, username, password, calendarPath string, logger *zap.Logger) *CalDAVSource {
	return &CalDAVSource{
		baseURL:      baseURL,
		username:     username,
		password:     password,
		calendarPath: calendarPath,
		logger:       logger,
	}
}

func (s *CalDAVSource) getClient() (*caldav.Client, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, s.username, s.password), s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: create caldav client: %v", ErrSourceUnavailable, err)
	}
	return client, nil
}

func (s *CalDAVSource) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if s.calendarPath != "" {
		return s.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: find principal: %v", ErrSourceUnavailable, err)
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("%w: find calendar home set: %v", ErrSourceUnavailable, err)
	}
	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("%w: find calendars: %v", ErrSourceUnavailable, err)
	}
	if len(cals) == 0 {
		return "", fmt.Errorf("%w: no calendars found", ErrSourceUnavailable)
	}
	return cals[0].Path, nil
}

// ListBusyIntervals queries VEVENTs intersecting [from, to) and returns
// their occupied intervals.
func (s *CalDAVSource) ListBusyIntervals(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}
	calPath, err := s.findCalendarPath(ctx, client)
	if err != nil {
		return nil, err
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name: "VCALENDAR",
			Comps: []caldav.CalendarCompRequest{
				{
					Name:  "VEVENT",
					Props: []string{"UID", "DTSTART", "DTEND", "STATUS"},
				},
			},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{Name: "VEVENT", Start: from, End: to},
			},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query calendar: %v", ErrSourceUnavailable, err)
	}

	var busy []models.BusyInterval
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		for _, child := range obj.Data.Children {
			if child.Name != ical.CompEvent {
				continue
			}
			ev := ical.Event{Component: child}
			if props := child.Props[ical.PropStatus]; len(props) > 0 && props[0].Value == "CANCELLED" {
				continue
			}
			start, err := ev.DateTimeStart(from.Location())
			if err != nil {
				s.logger.Warn("skipping event without parsable start", zap.String("path", obj.Path), zap.Error(err))
				continue
			}
			end, err := ev.DateTimeEnd(from.Location())
			if err != nil || !end.After(start) {
				continue
			}
			busy = append(busy, models.BusyInterval{Start: start, End: end})
		}
	}
	return busy, nil
}

// CreateEvent PUTs a single-VEVENT calendar object. If the server refuses
// the object with ATTENDEE properties it is retried without them; the caller
// then gets a valid EventRef plus a wrapped ErrAttendeeInviteFailed.
func (s *CalDAVSource) CreateEvent(ctx context.Context, slot models.TimeSlot, summary, description string, attendees []string) (EventRef, error) {
	client, err := s.getClient()
	if err != nil {
		return EventRef{}, err
	}
	calPath, err := s.findCalendarPath(ctx, client)
	if err != nil {
		return EventRef{}, err
	}

	id := uuid.New().String()
	eventPath := fmt.Sprintf("%s%s.ics", calPath, id)

	cal := buildEventCalendar(id, slot, summary, description, attendees)
	if _, err := client.PutCalendarObject(ctx, eventPath, cal); err == nil {
		return EventRef{ID: id, Link: eventPath}, nil
	} else if len(attendees) == 0 {
		return EventRef{}, fmt.Errorf("%w: put event: %v", ErrSourceUnavailable, err)
	} else {
		s.logger.Warn("event rejected with attendees, retrying without", zap.String("path", eventPath), zap.Error(err))
	}

	cal = buildEventCalendar(id, slot, summary, description, nil)
	if _, err := client.PutCalendarObject(ctx, eventPath, cal); err != nil {
		return EventRef{}, fmt.Errorf("%w: put event: %v", ErrSourceUnavailable, err)
	}
	return EventRef{ID: id, Link: eventPath}, fmt.Errorf("%w: invites not delivered to %d attendee(s)", ErrAttendeeInviteFailed, len(attendees))
}

// buildEventCalendar assembles the iCalendar body for one consultation.
func buildEventCalendar(id string, slot models.TimeSlot, summary, description string, attendees []string) *ical.Calendar {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, id)
	event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, slot.Start)
	event.Props.SetDateTime(ical.PropDateTimeEnd, slot.End)
	event.Props.SetText(ical.PropSummary, summary)
	if description != "" {
		event.Props.SetText(ical.PropDescription, description)
	}
	for _, email := range attendees {
		prop := ical.NewProp(ical.PropAttendee)
		prop.Value = "mailto:" + email
		event.Props.Add(prop)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//bookflow//Booking Engine//EN")
	cal.Children = append(cal.Children, event.Component)
	return cal
}
