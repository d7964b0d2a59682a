package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/piparlabs/store-token-service/internal/app/background"
	"github.com/piparlabs/store-token-service/internal/client"
	"github.com/piparlabs/store-token-service/internal/config"
	httpapi "github.com/piparlabs/store-token-service/internal/delivery/http"
	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/chain"
	publisher "github.com/piparlabs/store-token-service/internal/infrastructure/kafka"
	"github.com/piparlabs/store-token-service/internal/infrastructure/metrics"
	"github.com/piparlabs/store-token-service/internal/infrastructure/migrate"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres/repository"
	"github.com/piparlabs/store-token-service/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.ContractDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.ContractDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)
	sub := publisher.NewDefaultKafkaSubscriber(brokers)

	// Init repositories
	stateRepo := repository.NewContractStateRepository(db)
	seriesRepo := repository.NewSeriesRepository(db)
	affiliateRepo := repository.NewAffiliateRequestRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	chainRepo := repository.NewCallChainRepository(db)

	// Seed the contract singleton; a no-op when state already exists so the
	// deployment flag survives restarts
	if err := stateRepo.InitState(&domain.ContractState{
		StoreAccountID:       cfg.Contract.StoreAccount,
		OwnerID:              cfg.Contract.OwnerAccount,
		MarketplaceAccountID: cfg.Contract.MarketplaceAccount,
		TokenCost:            cfg.Contract.TokenCost,
		Metadata: domain.StoreMetadata{
			Name:   cfg.Contract.StoreName,
			Symbol: cfg.Contract.StoreSymbol,
		},
	}); err != nil {
		log.Fatalf("failed to init contract state: %v", err)
	}

	// Init external clients
	platformClient, err := client.NewHTTPTokenPlatformClient(fmt.Sprintf("http://%s:%s", cfg.TokenPlatform.Host, cfg.TokenPlatform.Port))
	if err != nil {
		log.Fatalf("failed to init token platform client: %v", err)
	}
	treasuryClient, err := client.NewHTTPTreasuryClient(fmt.Sprintf("http://%s:%s", cfg.Treasury.Host, cfg.Treasury.Port))
	if err != nil {
		log.Fatalf("failed to init treasury client: %v", err)
	}

	contractMetrics := metrics.NewContractMetrics()
	runner := chain.NewRunner(chainRepo, contractMetrics)
	guard := usecase.NewAccessGuard(stateRepo)

	// Init usecases
	seriesUsecase := usecase.NewDefaultSeriesUsecase(
		seriesRepo,
		guard,
		treasuryClient,
		contractMetrics,
		cfg.Contract.PerByteRate,
		cfg.Contract.MinAttachment,
	)
	affiliateUsecase := usecase.NewDefaultAffiliateUsecase(
		affiliateRepo,
		seriesRepo,
		guard,
		treasuryClient,
		pub,
		contractMetrics,
		cfg.Contract.PerByteRate,
		cfg.Contract.MinAttachment,
	)
	settlementUsecase := usecase.NewDefaultSettlementUsecase(
		seriesRepo,
		tokenRepo,
		guard,
		contractMetrics,
		cfg.Contract.PerByteRate,
	)
	factoryUsecase := usecase.NewDefaultFactoryUsecase(
		stateRepo,
		guard,
		platformClient,
		treasuryClient,
		runner,
		pub,
		contractMetrics,
		cfg.Contract.TokenCodeRef,
	)
	rewardUsecase := usecase.NewDefaultRewardUsecase(
		stateRepo,
		seriesRepo,
		guard,
		platformClient,
		runner,
		pub,
		contractMetrics,
		cfg.Contract.RegistrationFee,
	)
	stateUsecase := usecase.NewDefaultStateUsecase(stateRepo, chainRepo)

	// Chain worker
	go runner.Run(context.Background())

	// Marketplace sale events drive reward disbursement alongside the HTTP
	// entry point
	if err := rewardUsecase.StartSaleConsumer(context.Background(), sub); err != nil {
		log.Printf("failed to start sale consumer: %v", err)
	}

	// Background tasks
	tasks := background.NewBackgroundTasks(runner, cfg.Contract.ChainTimeout)
	tasks.StartAll(context.Background())

	router := httpapi.NewRouter(httpapi.Handlers{
		Series:      httpapi.NewSeriesHandler(seriesUsecase),
		Affiliate:   httpapi.NewAffiliateHandler(affiliateUsecase),
		Marketplace: httpapi.NewMarketplaceHandler(settlementUsecase, rewardUsecase),
		Factory:     httpapi.NewFactoryHandler(factoryUsecase),
		Query:       httpapi.NewQueryHandler(stateUsecase),
	})

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("HTTP server started on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}
