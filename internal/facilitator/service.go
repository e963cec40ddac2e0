// SPDX-License-Identifier: Apache-2.0

// Package facilitator implements the stateless verify/settle core of the
// payment protocol. The facilitator keeps no database: every answer is
// derived from the request and a fresh ledger lookup, so a settle request
// replayed twice yields the same answer twice. Deduplication of settlement
// requests is deliberately left to callers.
package facilitator

import (
	"context"
	"fmt"
	"time"

	"github.com/veridia/paycore/internal/ledger"
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/models"
)

// Service answers verify and settle requests. It always produces a result;
// protocol-level failures (mismatched network, missing signature, ledger
// unreachable) are reported inside the result, never as a Go error.
type Service struct {
	clients ledger.ClientFactory
	logger  *logger.Logger
}

// NewService constructs the facilitator core on top of a ledger client
// factory.
func NewService(clients ledger.ClientFactory, log *logger.Logger) *Service {
	return &Service{clients: clients, logger: log}
}

// Verify checks the payer's claim against the ledger. Structural checks
// (network equality, signature presence, transaction-id grammar) run first
// so a malformed payload never triggers a ledger query. The claim is valid
// only when the referenced transaction is on the ledger with the literal
// success status.
//
// A proof is attached to every outcome: it records what was observed at
// verification time, including failures. Outcomes rejected before the
// ledger query carry a proof with an empty status.
func (s *Service) Verify(ctx context.Context, payload models.PaymentPayload, requirements models.PaymentRequirements) models.VerificationResult {
	log := logger.FromContext(ctx)
	txID := payload.Metadata.TransactionID

	if reason, ok := s.checkStructure(payload, requirements); !ok {
		log.Info().
			Str("func", "Service.Verify").
			Str("transaction_id", txID).
			Str("reason", reason).
			Msg("payload rejected before ledger query")
		return models.VerificationResult{
			Valid:         false,
			TransactionID: txID,
			Proof:         newProof(txID, "", payload.Network),
			Error:         reason,
		}
	}

	client, err := s.clients.NewReadOnly(payload.Network)
	if err != nil {
		return models.VerificationResult{
			Valid:         false,
			TransactionID: txID,
			Proof:         newProof(txID, "", payload.Network),
			Error:         fmt.Sprintf("ledger client: %v", err),
		}
	}
	defer client.Close()

	receipt, err := client.QueryReceipt(ctx, txID)
	if err != nil {
		log.Warn().
			Str("func", "Service.Verify").
			Str("transaction_id", txID).
			Err(err).
			Msg("ledger receipt query failed")
		return models.VerificationResult{
			Valid:         false,
			TransactionID: txID,
			Proof:         newProof(txID, "", payload.Network),
			Error:         fmt.Sprintf("receipt query: %v", err),
		}
	}

	result := models.VerificationResult{
		Valid:         receipt.Status == ledger.StatusSuccess,
		TransactionID: txID,
		Status:        receipt.Status,
		Proof:         newProof(txID, receipt.Status, payload.Network),
	}
	if !result.Valid {
		result.Error = fmt.Sprintf("transaction status %q is not %s", receipt.Status, ledger.StatusSuccess)
	}

	log.Info().
		Str("func", "Service.Verify").
		Str("transaction_id", txID).
		Str("status", receipt.Status).
		Bool("valid", result.Valid).
		Msg("verification completed")

	return result
}

// Settle re-runs verification and republishes the proof. No second transfer
// is ever performed: settlement is an idempotent confirmation, not a money
// movement.
func (s *Service) Settle(ctx context.Context, payload models.PaymentPayload, requirements models.PaymentRequirements) models.SettlementResult {
	verification := s.Verify(ctx, payload, requirements)

	return models.SettlementResult{
		Success:       verification.Valid,
		TransactionID: verification.TransactionID,
		Status:        verification.Status,
		Proof:         verification.Proof,
		Error:         verification.Error,
	}
}

// checkStructure runs the pre-ledger validations in a fixed order and
// returns the first failure reason.
func (s *Service) checkStructure(payload models.PaymentPayload, requirements models.PaymentRequirements) (string, bool) {
	if payload.Network != requirements.Network {
		return fmt.Sprintf("network mismatch: payload %q, requirements %q", payload.Network, requirements.Network), false
	}
	if payload.Signature == "" {
		return "missing payload signature", false
	}
	if !models.ValidTransactionID(payload.Metadata.TransactionID) {
		return fmt.Sprintf("unparseable transaction id %q", payload.Metadata.TransactionID), false
	}
	return "", true
}

func newProof(txID, status string, network models.Network) *models.Proof {
	return &models.Proof{
		TransactionID: txID,
		Status:        status,
		Network:       network,
		Timestamp:     time.Now().UTC(),
	}
}
