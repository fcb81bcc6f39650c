// Package app wires configuration, logging, storage and the HTTP engines for both binaries.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"newsportal/internal/core/auth"
	"newsportal/internal/core/cache"
	"newsportal/internal/core/config"
	"newsportal/internal/core/database"
	"newsportal/internal/core/logger"
	"newsportal/internal/core/server"
	"newsportal/internal/repo"
	"newsportal/internal/service"
	"newsportal/internal/transport/http/handler"
	"newsportal/internal/transport/http/router"
)

type App struct {
	Cfg     *config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	Service *service.Service
	Deps    router.Deps

	closers []func()
}

// NewLogger builds the process logger from cfg and routes std log and gin output through it.
func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	var (
		l       *zap.Logger
		cleanup func()
	)
	if r := cfg.Log.Rotate; r.Enable {
		l, cleanup = logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Filename:   r.Filename,
			MaxSizeMB:  r.MaxSizeMB,
			MaxBackups: r.MaxBackups,
			MaxAgeDays: r.MaxAgeDays,
			Compress:   r.Compress,
		})
	} else {
		l, cleanup = logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	undo := logger.RedirectStdLog(l, zapcore.InfoLevel)

	if cfg.App.Env == "prod" || cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l, zapcore.ErrorLevel)

	return l, func() { undo(); cleanup() }
}

// New opens the database, migrates and seeds it when configured, and assembles the service.
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg, Log: l}

	gormLog, err := logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		return nil, fmt.Errorf("gorm logger: %w", err)
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	store := repo.NewStore(db)
	if cfg.Seed.Enabled {
		err := service.Seed(ctx, store, service.SeedOptions{
			AdminEmail:    cfg.Seed.AdminEmail,
			AdminPassword: cfg.Seed.AdminPassword,
			AdminName:     cfg.Seed.AdminName,
		}, l)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	revoker, err := a.revoker(ctx, jwter.TTL)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Service = service.New(store, jwter, revoker, l)
	a.Deps = router.Deps{
		Log:      l,
		JWT:      jwter,
		Revoker:  revoker,
		Limits:   cfg.Limits,
		Registry: router.NewRegistry(handler.Modules(a.Service, l)...),
	}
	return a, nil
}

// revoker prefers redis so revocations are shared between processes; without an address
// they only live in this process.
func (a *App) revoker(ctx context.Context, ttl time.Duration) (auth.Revoker, error) {
	rc := a.Cfg.Redis
	if rc.Addr == "" {
		a.Log.Warn("redis not configured, token revocation is process-local")
		return auth.NewMemoryRevoker(100_000, ttl), nil
	}
	c := cache.New(rc.Addr, rc.Password, rc.DB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	a.closers = append(a.closers, func() { _ = c.Close() })
	a.Log.Info("redis connected", zap.String("addr", rc.Addr))
	return auth.NewRedisRevoker(c), nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Serve runs h on host:port until the process is signalled.
func (a *App) Serve(name string, h http.Handler, host string, port int, prefix string) {
	hc := a.Cfg.App.HTTP
	errLog, _ := logger.ToStdLogger(a.Log.Named(name), zapcore.ErrorLevel)
	addr := server.Addr(host, port)
	srv := server.BuildServer(addr, h,
		time.Duration(hc.ReadTimeoutSec)*time.Second,
		time.Duration(hc.WriteTimeoutSec)*time.Second,
		time.Duration(hc.IdleTimeoutSec)*time.Second,
		errLog,
	)
	base := server.HumanURL(host, port)
	a.Log.Info(name+" starting",
		zap.String("addr", addr),
		zap.String("open", base),
		zap.String("health", base+"/health"),
		zap.String("api", base+prefix),
	)
	server.Run(srv, a.Log, name, 10*time.Second)
}
