package api

import (
	"net/http"
	"time"

	"github.com/opsdash/calgrid/internal/model"
	"github.com/opsdash/calgrid/pkg/ical"
)

// ExportICS streams the caller's visible window as an iCalendar file.
// Without an explicit range it covers a year centered on today.
func (h *Handlers) ExportICS(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}

	q := r.URL.Query()
	today := model.DateOnly(h.now().In(h.cfg.Location()))
	start := today.AddDate(0, -6, 0)
	end := today.AddDate(0, 6, 0)

	var err error
	if q.Get("start") != "" {
		if start, err = h.queryDate(r, "start"); err != nil {
			writeError(w, http.StatusBadRequest, "bad start date")
			return
		}
	}
	if q.Get("end") != "" {
		if end, err = h.queryDate(r, "end"); err != nil {
			writeError(w, http.StatusBadRequest, "bad end date")
			return
		}
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end before start")
		return
	}

	events, err := h.store.ListEventsForRange(r.Context(), start, end)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	data, err := ical.BuildCalendarICS(events, h.cfg.ICS.BuildProdID(), h.cfg.Location())
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar-`+time.Now().Format("20060102")+`.ics"`)
	_, _ = w.Write(data)
}
