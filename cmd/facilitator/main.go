package main

import (
	"context"
	"fmt"

	"github.com/veridia/paycore/internal/adapter"
	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/internal/crypto"
	"github.com/veridia/paycore/internal/facilitator"
	handler "github.com/veridia/paycore/internal/handler/http"
	"github.com/veridia/paycore/internal/ledger"
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/internal/server"
	"github.com/veridia/paycore/internal/service"
	"github.com/veridia/paycore/internal/store"
	"github.com/veridia/paycore/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("paycore-facilitator")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := log.WithContext(context.Background())

	cipherKey, err := crypto.LoadKey(cfg.App.CipherKey)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading cipher key")
	}
	cipher, err := crypto.NewFieldCipher(cipherKey)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating field cipher")
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	clients := ledger.NewRESTClientFactory(cfg.Ledger, log)
	executor := ledger.NewExecutor(clients, log)

	facilitatorClient, err := adapter.NewHTTPFacilitatorClient(cfg.Facilitator, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating facilitator client")
	}

	services := service.NewServices(*storages, cipher, executor, facilitatorClient, *cfg, log)
	facilitatorSvc := facilitator.NewService(clients, log)

	handlers := handler.NewHandler(facilitatorSvc, services, cfg.Payments, log)

	backgroundWorkers := workers.NewWorkers(*storages, services.CredentialService, log)
	backgroundWorkers.Run()

	srv, err := server.NewServer(handlers.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
