package main

import (
	"log"

	"benefitflow-backend/internal/bootstrap"
	"benefitflow-backend/internal/server"
	"benefitflow-backend/internal/shared/config"
	"benefitflow-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.Env)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer app.Shutdown()

	if err := app.Reconciler.Start(); err != nil {
		log.Fatalf("start reconciler: %v", err)
	}

	addr := server.Addr(cfg.Port)
	telemetry.Info("server.start", map[string]any{"addr": addr, "env": cfg.Env})

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
