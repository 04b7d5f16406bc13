package api

import (
	"net/http"

	"github.com/opsdash/calgrid/internal/access"
	"github.com/opsdash/calgrid/internal/model"
	"github.com/opsdash/calgrid/internal/storage"
)

type eventResponse struct {
	model.CalendarEvent
	CanEdit bool `json:"can_edit"`
}

func (h *Handlers) eventResponses(events []model.CalendarEvent, user access.User) []eventResponse {
	now := h.now()
	out := make([]eventResponse, len(events))
	for i := range events {
		out[i] = eventResponse{
			CalendarEvent: events[i],
			CanEdit:       access.CanEdit(&events[i], user, now),
		}
	}
	return out
}

// ListEvents returns events intersecting [start, end]. Without an
// explicit range it serves the day of the default anchor date.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	start, err := h.queryDate(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad start date")
		return
	}
	end, err := h.queryDate(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad end date")
		return
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
	writeJSON(w, http.StatusOK, h.eventResponses(events, p.User()))
}

// CreateEvent persists a draft owned by the caller. The Employee role
// cannot create at all; the engine gates the same way client-side.
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if !access.CanCreate(p.Role) {
		writeError(w, http.StatusForbidden, "role may not create events")
		return
	}

	var draft model.CalendarEvent
	if !h.decode(w, r, &draft) {
		return
	}
	draft.ID = ""
	draft.OwnerEmployeeID = p.EmployeeID

	created, err := h.store.CreateEvent(r.Context(), draft)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.logger.Info().
		Str("event_id", created.ID).
		Str("owner", p.EmployeeID).
		Str("type", string(created.Type)).
		Msg("event created")
	writeJSON(w, http.StatusCreated, created)
}

// UpdateEvent applies a partial patch after the edit predicate passes:
// past events are immutable, Super Admin may edit any live event,
// everyone else only their own.
func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	existing, err := h.store.GetEvent(r.Context(), id)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if !access.CanEdit(existing, p.User(), h.now()) {
		writeError(w, http.StatusForbidden, "not permitted")
		return
	}

	var patch storage.Patch
	if !h.decode(w, r, &patch) {
		return
	}

	updated, err := h.store.UpdateEvent(r.Context(), id, patch)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.logger.Info().
		Str("event_id", id).
		Str("actor", p.EmployeeID).
		Msg("event updated")
	writeJSON(w, http.StatusOK, updated)
}

// DeleteEvent removes an event under the same predicate as UpdateEvent.
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	existing, err := h.store.GetEvent(r.Context(), id)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if !access.CanEdit(existing, p.User(), h.now()) {
		writeError(w, http.StatusForbidden, "not permitted")
		return
	}

	force := p.Role == access.RoleSuperAdmin
	if err := h.store.DeleteEvent(r.Context(), id, p.EmployeeID, force); err != nil {
		h.writeFailure(w, err)
		return
	}

	h.logger.Info().
		Str("event_id", id).
		Str("actor", p.EmployeeID).
		Msg("event deleted")
	w.WriteHeader(http.StatusNoContent)
}
