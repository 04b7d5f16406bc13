package api

import (
	"net/http"
	"time"

	"github.com/opsdash/calgrid/internal/access"
	"github.com/opsdash/calgrid/internal/layout"
	"github.com/opsdash/calgrid/internal/view"
)

// viewEnvelope wraps a computed layout with the caller's affordances so
// a thin client can disable its creation UI without a second request.
type viewEnvelope struct {
	Date      time.Time `json:"date"`
	CanCreate bool      `json:"can_create"`

	Day   *view.DayView   `json:"day,omitempty"`
	Week  *view.WeekView  `json:"week,omitempty"`
	Month *view.MonthView `json:"month,omitempty"`
}

func (h *Handlers) DayView(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, layout.ViewDay)
}

func (h *Handlers) WeekView(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, layout.ViewWeek)
}

func (h *Handlers) MonthView(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, layout.ViewMonth)
}

func (h *Handlers) serveView(w http.ResponseWriter, r *http.Request, mode layout.View) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	date, err := h.queryDate(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad date")
		return
	}

	start, end := view.WindowFor(mode, date)
	events, err := h.store.ListEventsForRange(r.Context(), start, end)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	env := viewEnvelope{
		Date:      date,
		CanCreate: access.CanCreate(p.Role),
	}
	switch mode {
	case layout.ViewDay:
		v := view.BuildDayView(h.cfg.Layout, events, date)
		env.Day = &v
	case layout.ViewWeek:
		v := view.BuildWeekView(h.cfg.Layout, events, date)
		env.Week = &v
	default:
		v := view.BuildMonthView(h.cfg.Layout, events, date)
		env.Month = &v
	}
	writeJSON(w, http.StatusOK, env)
}
