package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/jiahaoliu/minimall-backend/api/routes"
	"github.com/jiahaoliu/minimall-backend/internal/commission"
	"github.com/jiahaoliu/minimall-backend/internal/merchants"
	"github.com/jiahaoliu/minimall-backend/internal/posts"
	"github.com/jiahaoliu/minimall-backend/internal/social"
	"github.com/jiahaoliu/minimall-backend/pkg/config"
	"github.com/jiahaoliu/minimall-backend/pkg/db"
	"github.com/jiahaoliu/minimall-backend/pkg/logger"
	"github.com/jiahaoliu/minimall-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	commissionRepo := commission.NewRepository(dbClient.DB())

	commissionService, err := commission.NewService(commission.ServiceParams{
		Repo:   commissionRepo,
		DB:     dbClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create commission service", err)
		os.Exit(1)
	}

	merchantsService, err := merchants.NewService(merchants.ServiceParams{
		Repo:           merchants.NewRepository(dbClient.DB()),
		CommissionRepo: commissionRepo,
		DB:             dbClient,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create merchants service", err)
		os.Exit(1)
	}

	statsRepo := social.NewStatsRepository(dbClient.DB())

	socialService, err := social.NewService(social.ServiceParams{
		Repo:      social.NewRepository(dbClient.DB()),
		StatsRepo: statsRepo,
		DB:        dbClient,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create social service", err)
		os.Exit(1)
	}

	postsService, err := posts.NewService(posts.ServiceParams{
		Repo:      posts.NewRepository(dbClient.DB()),
		StatsRepo: statsRepo,
		DB:        dbClient,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create posts service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, merchantsService, commissionService, socialService, postsService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
