// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veridia/paycore/internal/adapter"
	"github.com/veridia/paycore/internal/facilitator"
	"github.com/veridia/paycore/internal/ledger"
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/internal/utils"
	"github.com/veridia/paycore/models"
)

const (
	stageTransfer     = "transfer"
	stageVerification = "verification"
	stageSettlement   = "settlement"
)

type paymentService struct {
	credentials CredentialService
	executor    ledger.TransferExecutor
	facilitator adapter.FacilitatorClient
	uuid        *utils.UUIDGenerator
	signKey     string

	logger *logger.Logger
}

// NewPaymentService wires the payment pipeline: payer credential lookup,
// ledger transfer, facilitator verification, facilitator settlement.
func NewPaymentService(credentials CredentialService, executor ledger.TransferExecutor, facilitatorClient adapter.FacilitatorClient, signKey string, log *logger.Logger) PaymentService {
	return &paymentService{
		credentials: credentials,
		executor:    executor,
		facilitator: facilitatorClient,
		uuid:        utils.NewUUIDGenerator(),
		signKey:     signKey,
		logger:      log,
	}
}

// Execute runs the linear pipeline transfer -> verify -> settle under the
// requirements' maxTimeoutSeconds deadline. Each stage runs only if the
// previous one succeeded; a failed stage returns a [StageError] carrying
// everything accumulated so far.
//
// Execute is not idempotent: retrying after a transfer-stage success moves
// money again.
func (p *paymentService) Execute(ctx context.Context, userID string, requirements models.PaymentRequirements) (models.PaymentResult, error) {
	log := logger.FromContext(ctx)

	amount, err := p.validateRequirements(requirements)
	if err != nil {
		return models.PaymentResult{}, err
	}

	if requirements.MaxTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(requirements.MaxTimeoutSeconds)*time.Second)
		defer cancel()
	}

	payer, err := p.credentials.GetPayerCredential(ctx, userID)
	if err != nil {
		return models.PaymentResult{}, err
	}

	attempt := facilitator.NewAttempt()
	result := models.PaymentResult{}

	// transfer
	transfer, err := p.executor.Execute(ctx, payer, requirements.PayTo, amount)
	if err != nil {
		return models.PaymentResult{}, p.stageFailure(ctx, stageTransfer, ErrTransferStage, result, err)
	}
	result.Transfer = &transfer
	if err = attempt.Transferred(); err != nil {
		return result, p.stageFailure(ctx, stageTransfer, ErrTransferStage, result, err)
	}

	payload, err := p.buildPayload(payer, requirements, transfer.TransactionID)
	if err != nil {
		return result, p.stageFailure(ctx, stageVerification, ErrVerificationStage, result, err)
	}

	// verify
	verification, err := p.facilitator.Verify(ctx, payload, requirements)
	if err != nil {
		return result, p.stageFailure(ctx, stageVerification, ErrVerificationStage, result, err)
	}
	result.Verification = &verification
	if stateErr := attempt.Verified(verification.Valid); stateErr != nil {
		return result, p.stageFailure(ctx, stageVerification, ErrVerificationStage, result, stateErr)
	}
	if !verification.Valid {
		// terminal: an invalid verification is never settled
		return result, p.stageFailure(ctx, stageVerification, ErrVerificationStage, result,
			fmt.Errorf("payment rejected: %s", verification.Error))
	}

	// settle
	settlement, err := p.facilitator.Settle(ctx, payload, requirements)
	if err != nil {
		return result, p.stageFailure(ctx, stageSettlement, ErrSettlementStage, result, err)
	}
	result.Settlement = &settlement
	if stateErr := attempt.Settled(settlement.Success); stateErr != nil {
		return result, p.stageFailure(ctx, stageSettlement, ErrSettlementStage, result, stateErr)
	}
	if !settlement.Success {
		log.Error().
			Str("func", "paymentService.Execute").
			Str("user_id", userID).
			Str("transaction_id", transfer.TransactionID).
			Str("error", settlement.Error).
			Msg("settlement failed after valid verification")
		return result, p.stageFailure(ctx, stageSettlement, ErrSettlementStage, result,
			fmt.Errorf("settlement rejected: %s", settlement.Error))
	}

	log.Info().
		Str("func", "paymentService.Execute").
		Str("user_id", userID).
		Str("transaction_id", transfer.TransactionID).
		Str("state", string(attempt.State())).
		Msg("payment completed")

	return result, nil
}

func (p *paymentService) validateRequirements(requirements models.PaymentRequirements) (models.Tinybar, error) {
	amount, err := models.ParseTinybar(requirements.MaxAmountRequired)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRequirements, err)
	}
	if !models.ValidAccountID(requirements.PayTo) {
		return 0, fmt.Errorf("%w: payTo %q is not a valid account", ErrInvalidRequirements, requirements.PayTo)
	}
	return amount, nil
}

// buildPayload assembles the payer's claim: fresh nonce and session, the
// on-ledger transaction id, and a signature binding all of them.
func (p *paymentService) buildPayload(payer models.PayerCredential, requirements models.PaymentRequirements, transactionID string) (models.PaymentPayload, error) {
	nonce := p.uuid.Generate()
	sessionID := p.uuid.Generate()

	validity := time.Duration(requirements.MaxTimeoutSeconds) * time.Second
	if validity <= 0 {
		validity = time.Minute
	}

	signature, err := utils.SignPaymentClaims(models.PaymentClaims{
		AccountID:     payer.OperatorAccountID,
		Nonce:         nonce,
		SessionID:     sessionID,
		TransactionID: transactionID,
	}, validity, p.signKey)
	if err != nil {
		return models.PaymentPayload{}, fmt.Errorf("sign payment payload: %w", err)
	}

	return models.PaymentPayload{
		Network:   payer.Network,
		AccountID: payer.OperatorAccountID,
		Amount:    requirements.MaxAmountRequired,
		Token:     models.TokenNative,
		Nonce:     nonce,
		SessionID: sessionID,
		Metadata:  models.PaymentMetadata{TransactionID: transactionID},
		Signature: signature,
	}, nil
}

// stageFailure wraps a stage error, translating a blown deadline into
// ErrPaymentTimeout so callers see one timeout error regardless of which
// stage the clock ran out in.
func (p *paymentService) stageFailure(ctx context.Context, stage string, sentinel error, partial models.PaymentResult, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		cause = fmt.Errorf("%w: %w", ErrPaymentTimeout, cause)
	}

	return &StageError{
		Stage:  stage,
		Result: partial,
		Err:    fmt.Errorf("%w: %w", sentinel, cause),
	}
}
