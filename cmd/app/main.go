package main

import (
	"bookinn/config"
	"bookinn/di"
	"bookinn/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
