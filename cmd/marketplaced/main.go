package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZilDuck/nft-marketplace/internal/config"
	"github.com/ZilDuck/nft-marketplace/internal/config/di"
	"github.com/ZilDuck/nft-marketplace/internal/deploy"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.Init()
	cfg := config.Get()

	container, err := di.NewContainer(cfg)
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	deployment, err := container.SafeGetDeployment()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to deploy contracts")
	}

	if cfg.FrontEnd.Update {
		if _, err := deploy.UpdateFrontEnd(deployment, container.GetAddressBook()); err != nil {
			zap.L().With(zap.Error(err), zap.String("file", cfg.FrontEnd.ContractsFile)).Error("Front end not updated")
		}
	}

	manager := container.GetEventManager()
	container.GetMarketplaceIndexer().Listen(manager)
	if cfg.Aws.SqsEnabled() {
		notifier, err := container.SafeGetNotifier()
		if err != nil {
			zap.L().With(zap.Error(err)).Fatal("Failed to start notifier")
		}
		notifier.Listen(manager)
	}

	srv, err := container.SafeGetServer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build server")
	}
	router, err := srv.Router()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build router")
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().With(zap.Error(err)).Fatal("Failed to start marketplace node")
		}
	}()

	zap.L().With(
		zap.String("port", cfg.Port),
		zap.Uint64("chainId", cfg.Chain.ChainID),
		zap.String("marketplace", deployment.Marketplace.Address().Hex()),
		zap.String("nft", deployment.Nft.Address().Hex()),
	).Info("Marketplace node started")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	zap.L().Info("Marketplace node stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to stop http server")
	}
	if err := container.Delete(); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to close services")
	}

	_ = zap.L().Sync()
}
