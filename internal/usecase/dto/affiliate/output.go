package affiliatedto

import "github.com/piparlabs/store-token-service/internal/domain"

type SubmitRequestOutput struct {
	Request     domain.AffiliateRequest
	StorageCost uint64
	Refunded    uint64
}
