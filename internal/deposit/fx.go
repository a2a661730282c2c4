package deposit

import (
	"github.com/dinetab/messbook/internal/deposit/repository"
	"github.com/dinetab/messbook/internal/deposit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("deposit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
