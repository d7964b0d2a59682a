package models

import "time"

// ContractStateModel is a singleton row, ID is always 1.
type ContractStateModel struct {
	ID                   uint   `gorm:"primaryKey"`
	StoreAccountID       string `gorm:"not null"`
	OwnerID              string `gorm:"not null"`
	MarketplaceAccountID string `gorm:"not null"`
	TokenDeployed        bool   `gorm:"default:false"`
	TokenCost            uint64 `gorm:"not null"`
	StoreName            string
	StoreSymbol          string
	StoreIcon            string
	StoreBgIcon          string
	StoreDescription     string
	StoreCategory        string
	StoreCity            string
	StoreCountry         string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (ContractStateModel) TableName() string {
	return "contract_state"
}
