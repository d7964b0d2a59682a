package domain

// TokenRecord tracks a token minted from a series. The generic NFT surface
// (transfers, approvals, enumeration) lives in the marketplace collaborator;
// this service only needs the ownership link for settlement and the locked
// set consumed by the marketplace unlock call.
type TokenRecord struct {
	TokenID  string
	SeriesID SeriesID
	OwnerID  string
}

type TokenRepository interface {
	GetTokenByID(tokenID string) (*TokenRecord, error)
	// LockToken adds the token to the set held pending an in-flight
	// cross-contract transaction.
	LockToken(tokenID string) error
	// UnlockToken removes the token from the locked set. Unlocking a token
	// that is not locked is a logic error, ErrTokenNotLocked.
	UnlockToken(tokenID string) error
	IsTokenLocked(tokenID string) (bool, error)
}
