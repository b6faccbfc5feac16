package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/promosite/service-api/internal/auth"
	"github.com/promosite/service-api/internal/banner"
	"github.com/promosite/service-api/internal/banner/asset"
	bannerrepo "github.com/promosite/service-api/internal/banner/repo"
	"github.com/promosite/service-api/internal/contact"
	contactrepo "github.com/promosite/service-api/internal/contact/repo"
	"github.com/promosite/service-api/internal/mailer"
	"github.com/promosite/service-api/internal/migrations"
	"github.com/promosite/service-api/internal/router"
	"github.com/promosite/service-api/internal/user"
	userrepo "github.com/promosite/service-api/internal/user/repo"
	"github.com/promosite/service-api/pkg/database"
	"github.com/promosite/service-api/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.InitLogger(utilities.LogConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting promosite service-api")

	// init db
	sqlDB, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	if err := migrations.Run(context.Background(), sqlDB); err != nil {
		sugar.Fatalf("migrations: %v", err)
	}

	// wrap with sqlx for convenience in repos
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")

	// token manager shared by the auth middleware and the user service
	tokens := auth.NewTokenManager(auth.ConfigFromEnv())

	// asset store: local disk by default, S3 when configured
	uploadsDir := getEnv("UPLOAD_DIR", "uploads")
	var assets asset.Store
	if os.Getenv("ASSET_STORE") == "s3" {
		assets, err = asset.NewS3Store(context.Background(), asset.S3Config{
			Bucket:  os.Getenv("S3_BUCKET"),
			Region:  os.Getenv("S3_REGION"),
			Prefix:  os.Getenv("S3_PREFIX"),
			BaseURL: os.Getenv("S3_BASE_URL"),
		})
		if err != nil {
			sugar.Fatalf("s3 asset store: %v", err)
		}
		uploadsDir = "" // nothing to serve locally
	} else {
		assets, err = asset.NewDiskStore(filepath.Join(uploadsDir, "banners"), "/uploads/banners")
		if err != nil {
			sugar.Fatalf("disk asset store: %v", err)
		}
	}

	// lead notifications are best-effort and disabled unless configured
	var notifier contact.Notifier
	if mailCfg := mailer.ConfigFromEnv(); mailCfg.Enabled() {
		m, err := mailer.New(mailCfg)
		if err != nil {
			sugar.Fatalf("mailer: %v", err)
		}
		notifier = m
		sugar.Infow("lead notifications enabled", "admin", mailCfg.AdminEmail)
	}

	userSvc := user.NewService(userrepo.NewUserRepo(sqlxDB), nil, tokens)
	bannerSvc := banner.NewService(bannerrepo.NewBannerRepo(sqlxDB), assets)
	contactSvc := contact.NewService(contactrepo.NewContactRepo(sqlxDB), notifier, sugar)

	handler := router.New(router.Config{
		Logger:     sugar,
		Users:      user.NewHandler(userSvc, sugar),
		Banners:    banner.NewHandler(bannerSvc, sugar),
		Contacts:   contact.NewHandler(contactSvc, sugar),
		Auth:       auth.Middleware(tokens),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
		UploadsDir: uploadsDir,
	})

	srv := &http.Server{
		Addr:    "0.0.0.0:" + getEnv("PORT", "4000"),
		Handler: handler,
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// run server in background
	go func() {
		sugar.Infow("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
