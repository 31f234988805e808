package main

import (
	"github.com/OFFIS-RIT/catalog-graph/internal/config"
	"github.com/OFFIS-RIT/catalog-graph/internal/server"
	"github.com/OFFIS-RIT/catalog-graph/internal/util"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
	})
	logger.Init(consoleLogger)

	cfg, err := config.Load(nil)
	if err != nil {
		logger.Fatal("Failed to load configuration", "err", err)
	}

	server.Init(cfg)
}
