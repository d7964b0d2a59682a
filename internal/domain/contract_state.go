package domain

// StoreMetadata describes the store front itself, initialized once together
// with the contract state.
type StoreMetadata struct {
	Name        string
	Symbol      string
	Icon        string
	BgIcon      string
	Description string
	Category    string
	City        string
	Country     string
}

// ContractState is the contract-wide singleton: trusted caller identities,
// the one-shot token deployment flag and the cached deployment cost.
type ContractState struct {
	StoreAccountID       string
	OwnerID              string
	MarketplaceAccountID string
	TokenDeployed        bool
	TokenCost            uint64
	Metadata             StoreMetadata
}

type ContractStateRepository interface {
	// InitState persists the singleton. Calling it when state already exists
	// is a no-op so restarts keep the deployed flag.
	InitState(state *ContractState) error
	GetState() (*ContractState, error)
	// SetTokenDeployedIfFalse flips the one-shot deployment flag and reports
	// whether this call performed the transition. Callbacks use it to
	// re-validate the flag instead of trusting state captured before their
	// chain was issued.
	SetTokenDeployedIfFalse() (bool, error)
}
