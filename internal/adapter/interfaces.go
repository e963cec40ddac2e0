// SPDX-License-Identifier: Apache-2.0

// Package adapter provides transport-layer clients for the external
// services the payment orchestrator depends on.
//
// The primary abstraction is [FacilitatorClient], which decouples the
// orchestrator from the facilitator's wire protocol. The package ships an
// HTTP/JSON implementation ([NewHTTPFacilitatorClient]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrBadRequest] for 400).
package adapter

import (
	"context"

	"github.com/veridia/paycore/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/facilitator_client_mock.go -package=mock

// FacilitatorClient is transport-agnostic access to the facilitator:
// submit a payment claim for verification, then request settlement.
//
// A returned error means the facilitator could not be reached or rejected
// the request shape; a logically failed verification or settlement is a
// nil error with the verdict inside the result.
type FacilitatorClient interface {
	Verify(ctx context.Context, payload models.PaymentPayload, requirements models.PaymentRequirements) (models.VerificationResult, error)
	Settle(ctx context.Context, payload models.PaymentPayload, requirements models.PaymentRequirements) (models.SettlementResult, error)
}
