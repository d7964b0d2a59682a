package domain

import "errors"

var (
	ErrSeriesNotFound       = errors.New("series not found")
	ErrAffiliateNotAccepted = errors.New("series does not accept affiliates")
	ErrInsufficientDeposit  = errors.New("insufficient attached deposit")
	ErrDuplicateRequest     = errors.New("already applied to become an affiliate")
	ErrRequestNotFound      = errors.New("affiliate request not found")
	ErrAffiliateNotEligible = errors.New("affiliate is not eligible for this series")
	ErrInvalidPercent       = errors.New("affiliate percent must be greater than zero")
	ErrNotContractOwner     = errors.New("only contract owner")
	ErrNotMarketplaceCaller = errors.New("only marketplace contract")
	ErrTokenAlreadyDeployed = errors.New("store owner has already deployed a token")
	ErrTokenNotDeployed     = errors.New("store owner has not deployed a token yet")
	ErrTokenNotLocked       = errors.New("token is not locked")
	ErrNoRewardForSeries    = errors.New("there is no token reward for this series")
	ErrChainNotFound        = errors.New("call chain not found")
	ErrStateNotInitialized  = errors.New("contract state not initialized")
)
