package models

import (
	"time"
)

type SeriesModel struct {
	ID                  uint64 `gorm:"primaryKey;autoIncrement:false"`
	Title               string `gorm:"not null"`
	Description         string
	Media               string
	Copies              *uint64
	BuyTimeout          uint64
	IsDiscount          bool   `gorm:"default:false"`
	DiscountPercent     uint64 `gorm:"default:0"`
	TokenAmountPerUnit  uint64 `gorm:"default:0"`
	IsReward            bool   `gorm:"default:false"`
	RewardAmountPerUnit uint64 `gorm:"default:0"`
	IsCustomUser        bool   `gorm:"default:false"`
	User                string
	// maps and sets serialized as JSON; affiliate stays NULL when the
	// series opted out of the program
	ColorsJSON    string  `gorm:"column:colors;type:text"`
	RoyaltyJSON   *string `gorm:"column:royalty;type:text"`
	AffiliateJSON *string `gorm:"column:affiliate;type:text"`
	TokenIDsJSON  string  `gorm:"column:token_ids;type:text"`
	Price         *uint64
	OwnerID       string `gorm:"index:idx_series_owner;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (SeriesModel) TableName() string {
	return "series"
}
