package auth

import (
	"github.com/dinetab/messbook/internal/auth/repository"
	"github.com/dinetab/messbook/internal/auth/service"
	"github.com/dinetab/messbook/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
