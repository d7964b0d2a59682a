package domain

import "time"

type SeriesID uint64

// SeriesMetadata is the template metadata every token minted from the
// series derives. Reward fields drive the reward disbursement flow.
type SeriesMetadata struct {
	Title               string
	Description         string
	Media               string
	Copies              *uint64
	BuyTimeout          uint64
	IsDiscount          bool
	DiscountPercent     uint64
	TokenAmountPerUnit  uint64
	IsReward            bool
	RewardAmountPerUnit uint64
	IsCustomUser        bool
	User                string
}

type Series struct {
	ID       SeriesID
	Metadata SeriesMetadata
	Colors   map[string]uint32
	// Royalty maps account id to basis points. Nil if the series has none.
	Royalty map[string]uint32
	// Affiliate maps account id to commission basis points. Nil means the
	// series does not accept affiliates at all. Accounts seeded at series
	// creation carry a zero percentage until the owner approves a request.
	Affiliate map[string]uint32
	TokenIDs  []string
	Price     *uint64
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AcceptsAffiliates reports whether the series opted into the affiliate
// program when it was created.
func (s *Series) AcceptsAffiliates() bool {
	return s.Affiliate != nil
}

// ApprovedAffiliatePercent returns the commission percentage for an account
// that has been approved by the owner. Seeded-but-unapproved accounts hold a
// zero percentage and are not considered approved.
func (s *Series) ApprovedAffiliatePercent(accountID string) (uint32, bool) {
	if s.Affiliate == nil {
		return 0, false
	}
	percent, ok := s.Affiliate[accountID]
	if !ok || percent == 0 {
		return 0, false
	}
	return percent, true
}

type SeriesRepository interface {
	// CreateSeries persists a new series and reports the storage bytes the
	// insert consumed. The insert is rolled back with ErrInsufficientDeposit
	// when the row would consume more than maxBytes.
	CreateSeries(series *Series, maxBytes int64) (int64, error)
	GetSeriesByID(id SeriesID) (*Series, error)
	// SetAffiliatePercent overwrites the commission percentage of an account
	// already present in the series affiliate map.
	SetAffiliatePercent(id SeriesID, accountID string, percent uint32) error
	GetSeries(page, limit int32) ([]*Series, error)
}
