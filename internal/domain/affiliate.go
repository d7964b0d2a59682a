package domain

import "time"

// AffiliateRequest is the enrollment of one account as an affiliate for one
// series. Requests are append-only audit records: the only mutation allowed
// is the single unapproved -> approved transition.
type AffiliateRequest struct {
	ID        string
	AccountID string
	SeriesID  SeriesID
	Approved  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AffiliateRequestRepository interface {
	// AppendRequest inserts a new request and reports the storage bytes it
	// consumed. The insert is rolled back with ErrInsufficientDeposit when
	// the record would consume more than maxBytes.
	AppendRequest(request *AffiliateRequest, maxBytes int64) (int64, error)
	// FindByAccountAndSeries returns any request for the pair, resolved or
	// not. ErrRequestNotFound if none exists.
	FindByAccountAndSeries(accountID string, seriesID SeriesID) (*AffiliateRequest, error)
	// FindUnresolved returns the pending request for the pair.
	// ErrRequestNotFound if none exists.
	FindUnresolved(accountID string, seriesID SeriesID) (*AffiliateRequest, error)
	// MarkApproved flips the request to approved in place and returns the
	// updated record.
	MarkApproved(requestID string) (*AffiliateRequest, error)
	// ListRequests returns all requests in insertion order.
	ListRequests() ([]*AffiliateRequest, error)
}
