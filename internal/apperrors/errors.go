package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrProviderUnavailable indicates an upstream market-data provider failed
// (network error, HTTP error or malformed payload). Services absorb this into
// fallback data; it never reaches handlers.
var ErrProviderUnavailable = errors.New("provider unavailable")

// ErrRateLimited indicates the quote provider reported its per-minute call
// ceiling. Treated the same as ErrProviderUnavailable by consumers.
var ErrRateLimited = errors.New("provider rate limit reached")

// ErrNoData indicates the upstream holdings list itself could not be
// obtained. This is the only failure surfaced to API clients.
var ErrNoData = errors.New("no portfolio data available")
