package models

import "time"

type TokenModel struct {
	TokenID   string `gorm:"primaryKey"`
	SeriesID  uint64 `gorm:"index:idx_token_series;not null"`
	OwnerID   string `gorm:"index:idx_token_owner;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TokenModel) TableName() string {
	return "tokens"
}

type LockedTokenModel struct {
	TokenID   string `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (LockedTokenModel) TableName() string {
	return "locked_tokens"
}
