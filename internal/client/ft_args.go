package client

// Argument schemas of the deployed token collaborator. These are a fixed
// external contract and must serialize field-for-field.

// FtData initializes the fungible token: this service's store account
// becomes the token's administrative owner.
type FtData struct {
	OwnerID     string `json:"owner_id"`
	TotalSupply uint64 `json:"total_supply"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Icon        string `json:"icon"`
}

// StorageData registers the receiver account with the token contract.
type StorageData struct {
	AccountID        string `json:"account_id"`
	RegistrationOnly bool   `json:"registration_only"`
}

// TokenData transfers tokens to the receiver with an explanatory memo.
type TokenData struct {
	ReceiverID string `json:"receiver_id"`
	Amount     uint64 `json:"amount"`
	Memo       string `json:"memo"`
}
