package http

import (
	"errors"
	"net/http"

	"github.com/veridia/paycore/internal/ledger"
	"github.com/veridia/paycore/internal/service"
	"github.com/veridia/paycore/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidCredentialData: http.StatusBadRequest,
	service.ErrInvalidRequirements:   http.StatusBadRequest,
	service.ErrCredentialNotFound:    http.StatusNotFound,
	service.ErrCorruptCredential:     http.StatusConflict,
	service.ErrPaymentTimeout:        http.StatusGatewayTimeout,
	service.ErrTransferStage:         http.StatusBadGateway,
	service.ErrVerificationStage:     http.StatusPaymentRequired,
	service.ErrSettlementStage:       http.StatusBadGateway,

	ledger.ErrInvalidRecipient:    http.StatusBadRequest,
	ledger.ErrNonPositiveAmount:   http.StatusBadRequest,
	ledger.ErrInsufficientBalance: http.StatusPaymentRequired,

	store.ErrCredentialNotFound:        http.StatusNotFound,
	store.ErrDuplicateActiveCredential: http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

// statusFromError resolves the most specific mapped sentinel first so a
// chain like "transfer stage: insufficient balance" answers 402, not 502.
var errorStatusPriority = []error{
	service.ErrCredentialNotFound,
	service.ErrCorruptCredential,
	service.ErrInvalidCredentialData,
	service.ErrInvalidRequirements,
	ledger.ErrInvalidRecipient,
	ledger.ErrNonPositiveAmount,
	ledger.ErrInsufficientBalance,
	service.ErrPaymentTimeout,
	service.ErrVerificationStage,
	service.ErrTransferStage,
	service.ErrSettlementStage,
}

func statusFromError(err error) int {
	for _, target := range errorStatusPriority {
		if errors.Is(err, target) {
			return errorStatusMap[target]
		}
	}
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
