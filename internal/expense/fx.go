package expense

import (
	"github.com/dinetab/messbook/internal/expense/repository"
	"github.com/dinetab/messbook/internal/expense/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
