package ratelimit

import "github.com/neighborly/neighborly-api/internal/pkg/apperr"

var (
	ErrRateLimited = apperr.ResourceExhausted("Too many requests, please try again later")
	// ErrContention means the counter kept changing under concurrent writers.
	ErrContention = apperr.ResourceExhausted("Too many concurrent requests, please retry")
)
