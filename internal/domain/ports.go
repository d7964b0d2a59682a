package domain

import "context"

// TokenPlatformPort is the boundary to the external account/contract platform
// the deploy and reward chains run against. Every call crosses a trust
// boundary and may fail independently of local state.
type TokenPlatformPort interface {
	CreateSubaccount(ctx context.Context, accountID string) error
	AddFullAccessKey(ctx context.Context, accountID, publicKey string) error
	Transfer(ctx context.Context, receiverID string, amount uint64) error
	DeployCode(ctx context.Context, accountID, codeRef string) error
	// Call invokes a method on a deployed contract with JSON-serialized args.
	Call(ctx context.Context, accountID, method string, args any, deposit uint64) error
}

// TreasuryPort moves funds on behalf of this service: excess-deposit refunds
// after byte-accounted writes and full compensation refunds after a failed
// chain.
type TreasuryPort interface {
	Refund(ctx context.Context, receiverID string, amount uint64, memo string) error
}
