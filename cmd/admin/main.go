package main

import (
	"context"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"newsportal/internal/app"
	"newsportal/internal/core/config"
	"newsportal/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}
	log, cleanup := app.NewLogger(cfg)
	defer cleanup()

	// Seeding belongs to the user api process; running it twice is harmless but noisy.
	cfg.Seed.Enabled = false
	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	a.Serve("admin api", router.NewAdminEngine(a.Deps), cfg.App.Admin.Host, cfg.App.Admin.Port, "/admin/v1")
}
