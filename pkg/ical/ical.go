// Package ical serializes calendar events to an iCalendar document for
// the export endpoint. Timed events carry local DTSTART/DTEND in the
// service timezone; all-day and special-day entries use DATE values
// with an exclusive end date per RFC 5545.
package ical

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/opsdash/calgrid/internal/model"
)

const dateLayout = "20060102"

// BuildCalendarICS renders events into a single VCALENDAR.
func BuildCalendarICS(events []model.CalendarEvent, prodID string, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	for i := range events {
		cal.Children = append(cal.Children, buildEvent(&events[i], loc))
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func buildEvent(e *model.CalendarEvent, loc *time.Location) *ical.Component {
	ev := ical.NewComponent(ical.CompEvent)

	ev.Props.SetText(ical.PropUID, e.ID)
	ev.Props.SetText(ical.PropSummary, e.Title)
	ev.Props.SetText(ical.PropCategories, string(e.Type))
	if e.Agenda != "" {
		ev.Props.SetText(ical.PropDescription, e.Agenda)
	}
	if e.Link != "" {
		link := ical.NewProp(ical.PropURL)
		link.Value = e.Link
		ev.Props.Set(link)
	}
	if e.DayKind != "" {
		kind := ical.NewProp("X-DAY-KIND")
		kind.Value = string(e.DayKind)
		ev.Props.Set(kind)
	}

	stamp := e.UpdatedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	dtstamp := ical.NewProp(ical.PropDateTimeStamp)
	dtstamp.SetDateTime(stamp.UTC())
	ev.Props.Set(dtstamp)

	if e.IsAllDay() || e.IsMultiDay() {
		setDateProp(ev, ical.PropDateTimeStart, e.Date)
		// DTEND is exclusive for DATE values
		setDateProp(ev, ical.PropDateTimeEnd, e.EndDate.AddDate(0, 0, 1))
	} else {
		start := e.Date
		if e.StartTime != nil {
			start = at(e.Date, *e.StartTime, loc)
		}
		setDateTimeProp(ev, ical.PropDateTimeStart, start)
		setDateTimeProp(ev, ical.PropDateTimeEnd, timedEnd(e, loc))
	}

	for _, a := range e.Attendees {
		ev.Props.Add(attendeeProp(a))
	}
	if e.OwnerEmployeeID != "" {
		org := ical.NewProp(ical.PropOrganizer)
		org.Value = participantURI(e.OwnerEmployeeID)
		ev.Props.Add(org)
	}

	return ev
}

// timedEnd resolves the end instant of a timed event. An end clock at or
// past 24:00 rolls to midnight of the following day.
func timedEnd(e *model.CalendarEvent, loc *time.Location) time.Time {
	if e.EndTime == nil {
		if e.StartTime != nil {
			return at(e.Date, *e.StartTime, loc).Add(time.Hour)
		}
		return at(e.Date, model.Clock{Hour: 24}, loc)
	}
	if e.StartTime != nil && e.EndTime.Hour == 0 && e.EndTime.Minute == 0 &&
		(e.StartTime.Hour > 0 || e.StartTime.Minute > 0) {
		return at(e.Date.AddDate(0, 0, 1), model.Clock{}, loc)
	}
	return at(e.EndDate, *e.EndTime, loc)
}

func at(date time.Time, c model.Clock, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// setDateProp writes a DATE-valued property. The value is assigned
// directly; SetText would overwrite the VALUE parameter with TEXT.
func setDateProp(ev *ical.Component, name string, d time.Time) {
	p := ical.NewProp(name)
	p.Params.Set(ical.ParamValue, "DATE")
	p.Value = d.Format(dateLayout)
	ev.Props.Set(p)
}

func setDateTimeProp(ev *ical.Component, name string, t time.Time) {
	p := ical.NewProp(name)
	p.SetDateTime(t)
	ev.Props.Set(p)
}

func attendeeProp(id string) *ical.Prop {
	p := ical.NewProp(ical.PropAttendee)
	p.Value = participantURI(id)
	return p
}

func participantURI(id string) string {
	if strings.Contains(id, "@") {
		return "mailto:" + id
	}
	return "urn:employee:" + id
}
