package domain

import "errors"

var (
	ErrPortfolioNotFound  = errors.New("Portfolio not found")
	ErrHoldingNotFound    = errors.New("Holding not found")
	ErrPeerNotFound       = errors.New("Peer recommendation not found")
	ErrHoldingNotAnalyzed = errors.New("Holding must be analyzed before finding peers")
)

// MalformedResponseError reports upstream LLM text that did not parse as the
// expected JSON shape. Callers decide whether to propagate or substitute a
// default.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return "malformed model response: " + e.Err.Error()
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
