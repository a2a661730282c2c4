package closure

import (
	"github.com/dinetab/messbook/internal/closure/repository"
	"github.com/dinetab/messbook/internal/closure/service"
	"go.uber.org/fx"
)

var Module = fx.Module("closure.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(service.NewGate),
)
