package postgres

import (
	"log"

	"github.com/piparlabs/store-token-service/internal/config"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.TokenServiceConfig) *gorm.DB {
	dsn := cfg.ContractDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.ContractStateModel{},
		&models.SeriesModel{},
		&models.AffiliateRequestModel{},
		&models.TokenModel{},
		&models.LockedTokenModel{},
		&models.CallChainModel{},
	)

	return db
}
