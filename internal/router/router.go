// Package router wires the API handlers into an http.Handler: the
// stdlib mux with method patterns, the authentication gate, and
// structured request logging.
package router

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsdash/calgrid/internal/api"
	"github.com/opsdash/calgrid/internal/auth"
	"github.com/opsdash/calgrid/internal/config"
)

func New(cfg *config.Config, h *api.Handlers, authn *auth.Chain, logger zerolog.Logger) http.Handler {
	r := &Router{
		config:   cfg,
		handlers: h,
		auth:     authn,
		logger:   logger,
	}
	return r.setupRoutes()
}

func (r *Router) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", r.handleHealth)

	base := r.getBasePath()
	mux.Handle("GET "+base+"/events", r.protect(r.handlers.ListEvents))
	mux.Handle("POST "+base+"/events", r.protect(r.handlers.CreateEvent))
	mux.Handle("PUT "+base+"/events/{id}", r.protect(r.handlers.UpdateEvent))
	mux.Handle("DELETE "+base+"/events/{id}", r.protect(r.handlers.DeleteEvent))

	mux.Handle("GET "+base+"/views/day", r.protect(r.handlers.DayView))
	mux.Handle("GET "+base+"/views/week", r.protect(r.handlers.WeekView))
	mux.Handle("GET "+base+"/views/month", r.protect(r.handlers.MonthView))

	mux.Handle("GET "+base+"/employees", r.protect(r.handlers.ListEmployees))
	mux.Handle("GET "+base+"/calendar.ics", r.protect(r.handlers.ExportICS))

	return r.logRequests(mux)
}

func (r *Router) getBasePath() string {
	base := r.config.HTTP.BasePath
	if base == "" || base[0] != '/' {
		base = "/api"
	}
	return strings.TrimSuffix(base, "/")
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// protect authenticates the request and stores the principal in the
// context before handing off.
func (r *Router) protect(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		p, err := r.authenticate(req)
		if err != nil || p == nil {
			r.logAttempt(req, err)
			w.Header().Set("WWW-Authenticate", `Basic realm="calgrid", charset="UTF-8"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, req.WithContext(auth.WithPrincipal(req.Context(), p)))
	})
}

func (r *Router) authenticate(req *http.Request) (*auth.Principal, error) {
	authz := req.Header.Get("Authorization")
	lower := strings.ToLower(authz)

	// Prefer Bearer if present and enabled
	if strings.HasPrefix(lower, "bearer ") && r.auth.BearerEnabled() {
		return r.auth.BearerAuthenticate(req.Context(), strings.TrimSpace(authz[7:]))
	}

	// Basic when header present or allowed for prompt
	if r.auth.BasicEnabled() {
		return r.auth.BasicAuthenticate(req.Context(), authz)
	}

	return nil, errors.New("no auth")
}

func (r *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, req)

		dur := time.Since(start)

		var ev *zerolog.Event
		switch req.Method {
		case http.MethodGet, http.MethodHead:
			ev = r.logger.Debug()
		default:
			ev = r.logger.Info()
		}

		ev.Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", statusOrDefault(rec.status)).
			Int("bytes", rec.bytes).
			Float64("duration_ms", float64(dur.Microseconds())/1000.0).
			Str("ip", realIP(req)).
			Str("user_agent", req.Header.Get("User-Agent")).
			Msg("http request")
	})
}

func (r *Router) logAttempt(req *http.Request, authErr error) {
	authz := req.Header.Get("Authorization")
	authType := ""
	if i := strings.IndexByte(authz, ' '); i > 0 {
		authType = strings.ToLower(authz[:i])
	}

	ev := r.logger.Info().
		Bool("auth_success", false).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("ip", realIP(req)).
		Str("user_agent", req.Header.Get("User-Agent")).
		Str("auth_type", authType)

	if authErr != nil {
		ev = ev.Str("error", authErr.Error())
	}

	ev.Msg("auth attempt")
}
