package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/clock"
	"github.com/dinetab/messbook/internal/config"
	"github.com/dinetab/messbook/internal/migration"
	"github.com/dinetab/messbook/internal/observability"
	"github.com/dinetab/messbook/internal/server"
	"github.com/dinetab/messbook/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
