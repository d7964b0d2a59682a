package seriesdto

type CreateSeriesInput struct {
	SeriesID            uint64
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
	Colors              map[string]uint32
	Royalty             map[string]uint32
	// AcceptAffiliates opts the series into the affiliate program;
	// AffiliateAccounts seeds the eligible accounts with a zero commission
	// until the owner approves their requests.
	AcceptAffiliates  bool
	AffiliateAccounts []string
	Price             *uint64
	OwnerID           string
	AttachedDeposit   uint64
}
