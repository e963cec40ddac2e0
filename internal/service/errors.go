package service

import (
	"errors"
	"fmt"

	"github.com/veridia/paycore/models"
)

var (
	// ErrCredentialNotFound means the user has no active credential of the
	// requested type.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrCorruptCredential means a credential row exists but its payload
	// cannot be decrypted or does not parse into the expected shape. It is
	// deliberately distinct from ErrCredentialNotFound: the row is there,
	// its contents cannot be trusted.
	ErrCorruptCredential = errors.New("credential data corrupt")

	// ErrInvalidCredentialData rejects an upsert payload before any
	// encryption or storage takes place.
	ErrInvalidCredentialData = errors.New("invalid credential data")

	// ErrInvalidRequirements rejects a payment whose requirements fail the
	// minimal structural checks (positive amount, well-formed payTo).
	ErrInvalidRequirements = errors.New("invalid payment requirements")

	// ErrPaymentTimeout reports that the maxTimeoutSeconds deadline expired
	// somewhere inside the transfer/verify/settle pipeline.
	ErrPaymentTimeout = errors.New("payment deadline exceeded")

	ErrTransferStage     = errors.New("transfer stage failed")
	ErrVerificationStage = errors.New("verification stage failed")
	ErrSettlementStage   = errors.New("settlement stage failed")
)

// StageError is the typed failure of one pipeline stage. It carries the
// partial PaymentResult accumulated before the failure so a caller can
// distinguish "money moved but verification failed" (Transfer set) from
// "nothing happened" (empty result).
type StageError struct {
	Stage  string
	Result models.PaymentResult
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("payment %s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// PartialResult extracts the partial payment result from err when it is a
// [StageError]; ok is false otherwise.
func PartialResult(err error) (models.PaymentResult, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Result, true
	}
	return models.PaymentResult{}, false
}
