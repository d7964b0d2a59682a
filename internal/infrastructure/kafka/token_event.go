package publisher

import (
	"encoding/json"

	"github.com/piparlabs/store-token-service/internal/domain"
)

const (
	TokenDeployTopic     = "token-deploy-events"
	TokenRewardTopic     = "token-reward-events"
	AffiliateTopic       = "affiliate-events"
	MarketplaceSaleTopic = "marketplace-sale-events"
)

// MarketplaceSaleEvent is emitted by the marketplace after a completed sale.
// Sales of reward series trigger a token disbursement to the buyer.
type MarketplaceSaleEvent struct {
	SeriesID uint64 `json:"series_id"`
	BuyerID  string `json:"buyer_id"`
	TokenID  string `json:"token_id"`
}

// TokenDeployEvent signals the outcome of a token deployment chain. The
// refund amount is nonzero only on failure.
type TokenDeployEvent struct {
	ChainID      string `json:"chain_id"`
	CallerID     string `json:"caller_id"`
	TokenAccount string `json:"token_account"`
	Status       string `json:"status"`
	RefundAmount uint64 `json:"refund_amount"`
}

type TokenRewardEvent struct {
	ChainID  string `json:"chain_id"`
	SeriesID uint64 `json:"series_id"`
	Receiver string `json:"receiver"`
	Amount   uint64 `json:"amount"`
	Status   string `json:"status"`
	Result   string `json:"result"`
}

type AffiliateEvent struct {
	RequestID string `json:"request_id"`
	AccountID string `json:"account_id"`
	SeriesID  uint64 `json:"series_id"`
	Status    string `json:"status"`
	Percent   uint32 `json:"percent"`
}

func PublishTokenDeployEvent(pub domain.PublisherPort, event TokenDeployEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return pub.Publish(TokenDeployTopic, domain.Message{Key: []byte(event.ChainID), Value: v})
}

func PublishTokenRewardEvent(pub domain.PublisherPort, event TokenRewardEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return pub.Publish(TokenRewardTopic, domain.Message{Key: []byte(event.ChainID), Value: v})
}

func PublishAffiliateEvent(pub domain.PublisherPort, event AffiliateEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return pub.Publish(AffiliateTopic, domain.Message{Key: []byte(event.AccountID), Value: v})
}
