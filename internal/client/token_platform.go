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

// HTTPTokenPlatformClient talks to the external account/contract platform the
// deploy and reward chains run against.
type HTTPTokenPlatformClient struct {
	Address string
}

func NewHTTPTokenPlatformClient(address string) (*HTTPTokenPlatformClient, error) {
	return &HTTPTokenPlatformClient{
		Address: address,
	}, nil
}

type createAccountRequest struct {
	AccountID string `json:"account_id"`
}

type addKeyRequest struct {
	PublicKey string `json:"public_key"`
}

type transferRequest struct {
	ReceiverID string `json:"receiver_id"`
	Amount     uint64 `json:"amount"`
}

type deployCodeRequest struct {
	CodeRef string `json:"code_ref"`
}

type callRequest struct {
	Method  string          `json:"method"`
	Args    json.RawMessage `json:"args"`
	Deposit uint64          `json:"deposit"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPTokenPlatformClient) CreateSubaccount(ctx context.Context, accountID string) error {
	return c.post(ctx, fmt.Sprintf("%s/accounts", c.Address), createAccountRequest{
		AccountID: accountID,
	})
}

func (c *HTTPTokenPlatformClient) AddFullAccessKey(ctx context.Context, accountID, publicKey string) error {
	return c.post(ctx, fmt.Sprintf("%s/accounts/%s/keys", c.Address, accountID), addKeyRequest{
		PublicKey: publicKey,
	})
}

func (c *HTTPTokenPlatformClient) Transfer(ctx context.Context, receiverID string, amount uint64) error {
	return c.post(ctx, fmt.Sprintf("%s/transfers", c.Address), transferRequest{
		ReceiverID: receiverID,
		Amount:     amount,
	})
}

func (c *HTTPTokenPlatformClient) DeployCode(ctx context.Context, accountID, codeRef string) error {
	return c.post(ctx, fmt.Sprintf("%s/accounts/%s/code", c.Address, accountID), deployCodeRequest{
		CodeRef: codeRef,
	})
}

func (c *HTTPTokenPlatformClient) Call(ctx context.Context, accountID, method string, args any, deposit uint64) error {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return c.post(ctx, fmt.Sprintf("%s/accounts/%s/calls", c.Address, accountID), callRequest{
		Method:  method,
		Args:    rawArgs,
		Deposit: deposit,
	})
}

func (c *HTTPTokenPlatformClient) post(ctx context.Context, url string, body any) error {
	requestBodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBodyBytes))
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
		return fmt.Errorf("token platform returned status %d", response.StatusCode)
	}
	return errors.New(errResponse.Error)
}
