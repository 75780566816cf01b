package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apictx "github.com/pontoamd/ponto-server/internal/api/http/context"
	"github.com/pontoamd/ponto-server/internal/api/http/router"
	httpServer "github.com/pontoamd/ponto-server/internal/api/http/server"
	"github.com/pontoamd/ponto-server/internal/config"
	"github.com/pontoamd/ponto-server/internal/geo"
	"github.com/pontoamd/ponto-server/internal/logger"
	"github.com/pontoamd/ponto-server/internal/model"
	"github.com/pontoamd/ponto-server/internal/repository/postgres"
	"github.com/pontoamd/ponto-server/internal/server"
	"github.com/pontoamd/ponto-server/internal/service"
	storage "github.com/pontoamd/ponto-server/internal/storage/minio"
	"github.com/pontoamd/ponto-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	zone, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		logger.Fatal("failed to load report timezone", "timezone", cfg.Report.Timezone, "error", err)
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	authService := service.NewAuth(userRepo, tokenManager, logger)
	attendanceService := service.NewAttendance(eventRepo, userRepo, storageClient, zone, cfg.Capture.JPEGQuality, logger)
	reportService := service.NewReport(eventRepo, userRepo, zone, logger)

	// Without a fallback site the probe has no provider and commits
	// must carry their own coordinates.
	var provider geo.Provider
	if cfg.Geo.FallbackEnabled {
		provider = geo.NewStaticProvider(cfg.Geo.FallbackLatitude, cfg.Geo.FallbackLongitude)
	}
	probe := geo.NewProbe(provider, cfg.Geo.Timeout, cfg.Geo.HighAccuracy, logger)

	r := router.New(authService, attendanceService, reportService, probe, tokenManager, apictx.NewManager(), logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
