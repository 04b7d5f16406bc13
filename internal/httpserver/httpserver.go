package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsdash/calgrid/internal/api"
	"github.com/opsdash/calgrid/internal/auth"
	"github.com/opsdash/calgrid/internal/cleanup"
	"github.com/opsdash/calgrid/internal/config"
	"github.com/opsdash/calgrid/internal/directory"
	"github.com/opsdash/calgrid/internal/router"
	"github.com/opsdash/calgrid/internal/storage"
	"github.com/opsdash/calgrid/internal/storage/postgres"
	"github.com/opsdash/calgrid/internal/storage/sqlite"
)

type Server struct {
	http    *http.Server
	janitor *cleanup.Janitor
	logger  zerolog.Logger
}

func NewServer(cfg *config.Config, logger zerolog.Logger) (*Server, func(), error) {
	// init storage
	var store storage.Store
	var err error

	switch cfg.Storage.Type {
	case "postgres":
		store, err = postgres.New(cfg.Storage.PostgresURL, logger)
	case "sqlite":
		store, err = sqlite.New(cfg.Storage.SQLitePath, logger)
	default:
		err = errors.New("unknown storage type: " + cfg.Storage.Type)
	}
	if err != nil {
		return nil, nil, err
	}

	dir, err := directory.NewLDAPClient(cfg.LDAP, logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	authn := auth.NewChain(cfg, dir, logger)
	handlers := api.NewHandlers(cfg, store, dir, logger)
	mux := router.New(cfg, handlers, authn, logger)

	srv := &Server{
		http: &http.Server{
			Addr:         cfg.HTTP.Addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}

	if cfg.Retention.Enabled {
		janitor, err := cleanup.New(cfg.Retention, store, logger)
		if err != nil {
			store.Close()
			dir.Close()
			return nil, nil, err
		}
		srv.janitor = janitor
		janitor.Start()
	}

	cleanupFn := func() {
		if srv.janitor != nil {
			srv.janitor.Stop()
		}
		store.Close()
		dir.Close()
	}
	logger.Info().Msgf("listening on %s (storage=%s)", cfg.HTTP.Addr, cfg.Storage.Type)
	return srv, cleanupFn, nil
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
