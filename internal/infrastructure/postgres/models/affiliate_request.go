package models

import "time"

type AffiliateRequestModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Seq       uint64 `gorm:"uniqueIndex"` // insertion order, assigned on insert
	AccountID string `gorm:"index:idx_affiliate_pair;not null"`
	SeriesID  uint64 `gorm:"index:idx_affiliate_pair;not null"`
	Approved  bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AffiliateRequestModel) TableName() string {
	return "affiliate_requests"
}
