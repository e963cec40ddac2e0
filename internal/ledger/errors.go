package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrTransferFailed is the umbrella error wrapping every transfer
	// execution failure. Callers match it with errors.Is and inspect the
	// wrapped kind for the specific cause.
	ErrTransferFailed = errors.New("transfer failed")

	ErrInvalidRecipient    = errors.New("invalid recipient account")
	ErrNonPositiveAmount   = errors.New("transfer amount must be positive")
	ErrNoPayerKey          = errors.New("payer private key missing or unparseable")
	ErrInsufficientBalance = errors.New("payer balance below transfer amount")
	ErrSubmitFailed        = errors.New("transaction submit failed")
	ErrReceiptFailed       = errors.New("receipt query failed")

	// ErrNoGatewayURL means no ledger gateway base URL is configured for
	// the requested network.
	ErrNoGatewayURL = errors.New("no ledger gateway url configured for network")
)

// wrapTransfer chains a failure kind (and optional cause) under
// [ErrTransferFailed] so both remain matchable with errors.Is.
func wrapTransfer(kind, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, kind)
	}
	return fmt.Errorf("%w: %w: %w", ErrTransferFailed, kind, cause)
}
