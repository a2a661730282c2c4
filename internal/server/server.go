// Package server wires the HTTP surface: gin engine, middleware, and one
// handler file per feature.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/auth"
	authdomain "github.com/dinetab/messbook/internal/auth/domain"
	"github.com/dinetab/messbook/internal/auth/session"
	"github.com/dinetab/messbook/internal/clock"
	"github.com/dinetab/messbook/internal/closure"
	closuredomain "github.com/dinetab/messbook/internal/closure/domain"
	"github.com/dinetab/messbook/internal/config"
	"github.com/dinetab/messbook/internal/deposit"
	depositdomain "github.com/dinetab/messbook/internal/deposit/domain"
	"github.com/dinetab/messbook/internal/expense"
	expensedomain "github.com/dinetab/messbook/internal/expense/domain"
	"github.com/dinetab/messbook/internal/house"
	housedomain "github.com/dinetab/messbook/internal/house/domain"
	"github.com/dinetab/messbook/internal/meal"
	mealdomain "github.com/dinetab/messbook/internal/meal/domain"
	obslogger "github.com/dinetab/messbook/internal/observability/logger"
	obsmetrics "github.com/dinetab/messbook/internal/observability/metrics"
	"github.com/dinetab/messbook/internal/settlement"
	settlementdomain "github.com/dinetab/messbook/internal/settlement/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	auth.Module,
	house.Module,
	meal.Module,
	expense.Module,
	deposit.Module,
	closure.Module,
	settlement.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, registry *prometheus.Registry, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           !cfg.IsProduction(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	// The gorm prometheus plugin registers its pool collectors on the
	// default registry, so gather both.
	gatherers := prometheus.Gatherers{registry, prometheus.DefaultGatherer}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})))

	return r
}

func registerGin(cfg config.Config, registry *prometheus.Registry, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, registry, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	clock         clock.Clock
	genID         *snowflake.Node
	sessions      *session.Manager
	authsvc       authdomain.Service
	housesvc      housedomain.Service
	houserepo     housedomain.Repository
	mealsvc       mealdomain.Service
	expensesvc    expensedomain.Service
	depositsvc    depositdomain.Service
	closuresvc    closuredomain.Service
	settlementsvc settlementdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	Clock         clock.Clock
	GenID         *snowflake.Node
	Sessions      *session.Manager
	Authsvc       authdomain.Service
	Housesvc      housedomain.Service
	Houserepo     housedomain.Repository
	Mealsvc       mealdomain.Service
	Expensesvc    expensedomain.Service
	Depositsvc    depositdomain.Service
	Closuresvc    closuredomain.Service
	Settlementsvc settlementdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		clock:         p.Clock,
		genID:         p.GenID,
		sessions:      p.Sessions,
		authsvc:       p.Authsvc,
		housesvc:      p.Housesvc,
		houserepo:     p.Houserepo,
		mealsvc:       p.Mealsvc,
		expensesvc:    p.Expensesvc,
		depositsvc:    p.Depositsvc,
		closuresvc:    p.Closuresvc,
		settlementsvc: p.Settlementsvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	s.engine.POST("/signup", s.Signup)
	s.engine.POST("/login", s.Login)
	s.engine.POST("/logout", s.Logout)
	s.engine.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1", s.AuthRequired())

	v1.POST("/houses", s.CreateHouse)
	v1.POST("/houses/join", s.JoinHouse)
	v1.GET("/houses", s.MyHouses)

	scoped := v1.Group("", s.HouseContext())
	{
		scoped.GET("/houses/:id", s.GetHouse)
		scoped.GET("/houses/:id/members", s.ListMembers)
		scoped.POST("/houses/:id/members", s.RequireManager(), s.AddMember)
		scoped.DELETE("/members/:id", s.RequireManager(), s.RemoveMember)

		scoped.POST("/meals", s.RequireManager(), s.RecordMeal)
		scoped.PUT("/meals", s.RequireManager(), s.RecordMeal)
		scoped.DELETE("/meals/:id", s.RequireManager(), s.DeleteMeal)
		scoped.GET("/meals", s.ListMeals)

		scoped.POST("/expenses", s.RequireManager(), s.AddExpense)
		scoped.DELETE("/expenses/:id", s.RequireManager(), s.DeleteExpense)
		scoped.GET("/expenses", s.ListExpenses)

		scoped.POST("/deposits", s.RequireManager(), s.AddDeposit)
		scoped.DELETE("/deposits/:id", s.RequireManager(), s.DeleteDeposit)
		scoped.GET("/deposits", s.ListDeposits)

		scoped.GET("/reports/monthly", s.MonthlyReport)
		scoped.GET("/reports/breakdown", s.ExpenseBreakdown)

		scoped.GET("/months/status", s.MonthStatus)
		scoped.POST("/months/close", s.RequireManager(), s.CloseMonth)
	}
}
