package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/craffles/raffle-backend/api/routes"
	"github.com/craffles/raffle-backend/internal/config"
	"github.com/craffles/raffle-backend/internal/handlers"
	"github.com/craffles/raffle-backend/internal/logger"
	"github.com/craffles/raffle-backend/internal/repositories"
	"github.com/craffles/raffle-backend/internal/repositories/memory"
	mongorepo "github.com/craffles/raffle-backend/internal/repositories/mongodb"
	"github.com/craffles/raffle-backend/internal/services"
	mongodb "github.com/craffles/raffle-backend/pkg/mongodb"
)

func main() {
	// A missing .env is fine; configuration falls back to the real
	// environment and built-in defaults.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger.Initialize(logger.Configuration{
		LogFile: cfg.Log.File,
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
	})

	var (
		raffleRepo    repositories.RaffleRepository
		ledgerRepo    repositories.LedgerRepository
		certLogRepo   repositories.CertificateLogRepository
		organizerRepo repositories.OrganizerRepository
		unitOfWork    repositories.UnitOfWork
	)

	switch cfg.Storage.Driver {
	case config.DriverMongoDB:
		mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
		if err != nil {
			logger.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				logger.Error("error disconnecting from MongoDB", zap.Error(err))
			}
		}()

		db := mongoClient.Database(cfg.MongoDB.Database)
		if err := mongorepo.EnsureIndexes(context.Background(), db); err != nil {
			logger.Fatal("failed to create indexes", zap.Error(err))
		}
		raffleRepo = mongorepo.NewRaffleRepository(db)
		ledgerRepo = mongorepo.NewLedgerRepository(db)
		certLogRepo = mongorepo.NewCertificateLogRepository(db)
		organizerRepo = mongorepo.NewOrganizerRepository(db)
		unitOfWork = mongorepo.NewUnitOfWork(mongoClient.Raw())
	case config.DriverMemory:
		store := memory.NewStore()
		raffleRepo = memory.NewRaffleRepository(store)
		ledgerRepo = memory.NewLedgerRepository(store)
		certLogRepo = memory.NewCertificateLogRepository(store)
		organizerRepo = memory.NewOrganizerRepository(store)
		unitOfWork = store
		logger.Warn("using in-memory storage; state is lost on shutdown")
	default:
		logger.Fatal("unknown storage driver", zap.String("driver", cfg.Storage.Driver))
	}

	raffleService := services.NewRaffleService(raffleRepo, ledgerRepo, certLogRepo, unitOfWork, cfg.CertLog)
	saleService := services.NewSaleService(raffleRepo, ledgerRepo, certLogRepo, unitOfWork)
	accountService := services.NewAccountService(ledgerRepo)
	authService := services.NewAuthService(organizerRepo, cfg)

	handlerDeps := routes.HandlerDependencies{
		AuthHandler:    handlers.NewAuthHandler(authService),
		RaffleHandler:  handlers.NewRaffleHandler(raffleService, saleService),
		AccountHandler: handlers.NewAccountHandler(accountService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Run server in a goroutine so that it doesn't block
	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
