package affiliatedto

type SubmitRequestInput struct {
	SeriesID        uint64
	AffiliateID     string
	AttachedDeposit uint64
}

type ApproveRequestInput struct {
	SeriesID    uint64
	AffiliateID string
	Percent     uint32
}
