package migration

import (
	authdomain "github.com/dinetab/messbook/internal/auth/domain"
	closuredomain "github.com/dinetab/messbook/internal/closure/domain"
	"github.com/dinetab/messbook/internal/config"
	depositdomain "github.com/dinetab/messbook/internal/deposit/domain"
	expensedomain "github.com/dinetab/messbook/internal/expense/domain"
	housedomain "github.com/dinetab/messbook/internal/house/domain"
	mealdomain "github.com/dinetab/messbook/internal/meal/domain"
	"github.com/dinetab/messbook/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&housedomain.House{},
				&housedomain.Member{},
				&mealdomain.MealRecord{},
				&expensedomain.ExpenseRecord{},
				&depositdomain.DepositRecord{},
				&closuredomain.MonthClosure{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoHouse(conn)
		}
		return nil
	}),
)
