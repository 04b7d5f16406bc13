// Package api is the JSON surface of the calendar service. Handlers
// resolve the authenticated principal from the request context, run the
// same access predicates the client UI gates its affordances on, and
// return fully computed view layouts so thin clients can render without
// reimplementing the grid math.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsdash/calgrid/internal/access"
	"github.com/opsdash/calgrid/internal/auth"
	"github.com/opsdash/calgrid/internal/config"
	"github.com/opsdash/calgrid/internal/directory"
	"github.com/opsdash/calgrid/internal/model"
	"github.com/opsdash/calgrid/internal/storage"
)

type Handlers struct {
	cfg    *config.Config
	store  storage.Store
	dir    directory.Directory
	logger zerolog.Logger

	// now is swapped in tests to pin the read-only horizon.
	now func() time.Time
}

func NewHandlers(cfg *config.Config, store storage.Store, dir directory.Directory, logger zerolog.Logger) *Handlers {
	return &Handlers{
		cfg:    cfg,
		store:  store,
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeFailure maps domain errors onto HTTP statuses.
func (h *Handlers) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "event not found")
	case errors.Is(err, storage.ErrForbidden), errors.Is(err, access.ErrNotPermitted):
		writeError(w, http.StatusForbidden, "not permitted")
	case errors.Is(err, model.ErrTitleRequired), errors.Is(err, model.ErrDateOrder):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.HTTP.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return false
	}
	return true
}

// principal pulls the authenticated caller out of the request context.
// The router only routes authenticated requests here; a missing
// principal means a wiring bug, answered with 401 rather than a panic.
func principal(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok || p == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return p, true
}

// queryDate parses a YYYY-MM-DD query parameter, defaulting to today in
// the service timezone when absent.
func (h *Handlers) queryDate(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return model.DateOnly(h.now().In(h.cfg.Location())), nil
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return d, nil
}
