package analyzer

import "errors"

// Error categories. Handlers map these to HTTP status codes; analyzer
// failures inside an audit are downgraded to report-level error strings.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrFetchFailure  = errors.New("fetch failure")
	ErrParseFailure  = errors.New("parse failure")
	ErrConfigMissing = errors.New("configuration missing")
)
