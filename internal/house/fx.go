package house

import (
	"github.com/dinetab/messbook/internal/house/repository"
	"github.com/dinetab/messbook/internal/house/service"
	"go.uber.org/fx"
)

var Module = fx.Module("house.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
