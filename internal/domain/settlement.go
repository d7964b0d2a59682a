package domain

// MarketplaceData is the settlement result for a single sale. It is computed
// per call and never persisted; the marketplace collaborator splits and
// transfers funds based on it.
//
// Affiliate is true iff both AffiliateID and AffiliatePercent are set, which
// only happens when the caller supplied a candidate account that is present
// and approved in the series affiliate map.
type MarketplaceData struct {
	Price            uint64
	Affiliate        bool
	AffiliateID      *string
	AffiliatePercent *uint32
	TokenID          string
	TokenOwner       string
	StoreOwner       string
}
