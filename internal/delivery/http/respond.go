package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piparlabs/store-token-service/internal/domain"
)

// callerHeader carries the authenticated account on whose behalf the call is
// made. The gateway in front of this service is responsible for verifying it.
const callerHeader = "X-Caller-Account"

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusOf(err), errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrSeriesNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrChainNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotContractOwner),
		errors.Is(err, domain.ErrNotMarketplaceCaller):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrDuplicateRequest),
		errors.Is(err, domain.ErrTokenAlreadyDeployed),
		errors.Is(err, domain.ErrTokenNotLocked):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientDeposit):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrAffiliateNotAccepted),
		errors.Is(err, domain.ErrAffiliateNotEligible),
		errors.Is(err, domain.ErrInvalidPercent),
		errors.Is(err, domain.ErrTokenNotDeployed),
		errors.Is(err, domain.ErrNoRewardForSeries):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
