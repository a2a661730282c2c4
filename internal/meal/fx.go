package meal

import (
	"github.com/dinetab/messbook/internal/meal/repository"
	"github.com/dinetab/messbook/internal/meal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("meal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
