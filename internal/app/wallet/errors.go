package wallet

import "errors"

var (
	ErrNotFound      = errors.New("agent_not_found")
	ErrInvalidToken  = errors.New("invalid_token")
	ErrFaucetPending = errors.New("faucet_pending")
)
