package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// HTTPTreasuryClient returns deposits to callers: excess over measured
// storage cost, and full compensation after a failed chain.
type HTTPTreasuryClient struct {
	Address string
}

func NewHTTPTreasuryClient(address string) (*HTTPTreasuryClient, error) {
	return &HTTPTreasuryClient{
		Address: address,
	}, nil
}

type refundRequest struct {
	ReceiverID string `json:"receiver_id"`
	Amount     uint64 `json:"amount"`
	Memo       string `json:"memo"`
}

func (c *HTTPTreasuryClient) Refund(ctx context.Context, receiverID string, amount uint64, memo string) error {
	requestBodyBytes, err := json.Marshal(refundRequest{
		ReceiverID: receiverID,
		Amount:     amount,
		Memo:       memo,
	})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/refunds", c.Address), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	var errResponse errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResponse); err != nil {
		return fmt.Errorf("treasury returned status %d", response.StatusCode)
	}
	return errors.New(errResponse.Error)
}
