package settlementdto

type SettleSaleInput struct {
	SeriesID         uint64
	StorageBytesUsed uint64
	UnitPrice        uint64
	StoreOwner       string
	TokenOwner       string
	TokenID          string
	AttachedDeposit  uint64
	// Affiliate is the candidate affiliate account supplied by the
	// marketplace; nil for a plain sale.
	Affiliate *string
}
