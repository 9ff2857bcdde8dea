package model

import "errors"

// error reasons surfaced by the github service
// a listing failure is downgraded per user, a languages failure per repository
var (
	ErrFetch            = errors.New("FETCH_ERROR")
	ErrRateLimitReached = errors.New("RATE_LIMIT_REACHED")
	ErrRateLimiter      = errors.New("RATE_LIMITER_ERROR")
)
