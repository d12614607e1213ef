package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/ZamoritaCR/neurostream/internal/clock"
	"github.com/ZamoritaCR/neurostream/internal/config"
	"github.com/ZamoritaCR/neurostream/internal/migration"
	"github.com/ZamoritaCR/neurostream/internal/observability"
	"github.com/ZamoritaCR/neurostream/internal/scheduler"
	"github.com/ZamoritaCR/neurostream/internal/server"
	"github.com/ZamoritaCR/neurostream/pkg/db"
	"github.com/ZamoritaCR/neurostream/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		server.Module,
		scheduler.Module,
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
