package api

import "net/http"

// ListEmployees serves the attendee picker's population from the
// directory. Directory failures degrade to an empty list; the picker is
// never a reason to fail a render.
func (h *Handlers) ListEmployees(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}

	employees, err := h.dir.ListEmployees(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("employee list failed")
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, employees)
}
