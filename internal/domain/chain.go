package domain

import "time"

type ChainKind string

const (
	ChainKindTokenDeploy ChainKind = "TOKEN_DEPLOY"
	ChainKindTokenReward ChainKind = "TOKEN_REWARD"
)

type ChainStatus string

const (
	ChainStatusPending   ChainStatus = "PENDING"
	ChainStatusRunning   ChainStatus = "RUNNING"
	ChainStatusSucceeded ChainStatus = "SUCCEEDED"
	ChainStatusFailed    ChainStatus = "FAILED"
)

type ChainStepStatus string

const (
	StepStatusScheduled ChainStepStatus = "SCHEDULED"
	StepStatusSucceeded ChainStepStatus = "SUCCEEDED"
	StepStatusFailed    ChainStepStatus = "FAILED"
	StepStatusSkipped   ChainStepStatus = "SKIPPED"
)

type ChainStep struct {
	Name   string          `json:"name"`
	Status ChainStepStatus `json:"status"`
	Error  string          `json:"error,omitempty"`
}

// CallChain is the persisted descriptor of one scheduled sequence of external
// calls. Steps execute strictly in order; after the first failure the rest
// are skipped and the completion callback for the chain kind fires exactly
// once with the aggregate outcome.
type CallChain struct {
	ID              string
	Kind            ChainKind
	Status          ChainStatus
	Steps           []ChainStep
	CallerID        string
	AttachedDeposit uint64
	SeriesID        *SeriesID
	Receiver        string
	Amount          uint64
	Result          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

type CallChainRepository interface {
	CreateChain(chain *CallChain) error
	GetChainByID(chainID string) (*CallChain, error)
	UpdateChain(chain *CallChain) error
	// ClaimCompletion transitions the chain to the terminal status only if it
	// is still pending or running, and reports whether this call made the
	// transition. Exactly one claimant wins when the runner and the stale
	// monitor race to finalize the same chain.
	ClaimCompletion(chainID string, status ChainStatus) (bool, error)
	// FindStuckChains returns chains still pending or running that were
	// created before the deadline.
	FindStuckChains(deadline time.Time) ([]*CallChain, error)
}
