package models

import "time"

type CallChainModel struct {
	ID              string `gorm:"primaryKey"`
	Kind            string `gorm:"index:idx_chain_kind;not null"`
	Status          string `gorm:"index:idx_chain_status;not null"`
	StepsJSON       string `gorm:"column:steps;type:text"`
	CallerID        string `gorm:"not null"`
	AttachedDeposit uint64 `gorm:"default:0"`
	SeriesID        *uint64
	Receiver        string
	Amount          uint64 `gorm:"default:0"`
	Result          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

func (CallChainModel) TableName() string {
	return "call_chains"
}
