package router

import (
	"github.com/rs/zerolog"

	"github.com/opsdash/calgrid/internal/api"
	"github.com/opsdash/calgrid/internal/auth"
	"github.com/opsdash/calgrid/internal/config"
)

type Router struct {
	config   *config.Config
	handlers *api.Handlers
	auth     *auth.Chain
	logger   zerolog.Logger
}
