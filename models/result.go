package models

import "time"

// Proof is the facilitator's evidentiary record of what it saw on the
// ledger. It is returned on both success and failure: the proof records the
// observation, not the judgement.
type Proof struct {
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
	Network       Network   `json:"network"`
	Timestamp     time.Time `json:"timestamp"`
}

// VerificationResult is the facilitator's answer to a verify request.
// Valid is true only when the referenced transaction exists on the ledger
// with the literal success status.
type VerificationResult struct {
	Valid         bool   `json:"valid"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	Proof         *Proof `json:"proof,omitempty"`
	Error         string `json:"error,omitempty"`
}

// SettlementResult is the facilitator's answer to a settle request.
// Settlement re-runs verification and republishes the same proof; it never
// performs a second transfer.
type SettlementResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	Proof         *Proof `json:"proof,omitempty"`
	Error         string `json:"error,omitempty"`
}

// TransferResult is the outcome of a submitted ledger transfer.
type TransferResult struct {
	TransactionID string  `json:"transactionId"`
	Status        string  `json:"status"`
	AmountTinybar Tinybar `json:"amountTinybar"`
}

// PaymentResult is the consolidated outcome of one logical payment:
// requirements -> transfer -> verify -> settle. Stages that were never
// reached are nil, so a caller can distinguish "money moved but
// verification failed" (Transfer set, Settlement nil) from "nothing
// happened" (all nil).
type PaymentResult struct {
	Transfer     *TransferResult     `json:"transaction,omitempty"`
	Verification *VerificationResult `json:"verification,omitempty"`
	Settlement   *SettlementResult   `json:"settlement,omitempty"`
}
