// SPDX-License-Identifier: Apache-2.0

// Package ledger talks to the Hedera-style ledger gateway: it submits
// signed crypto transfers, queries transaction receipts, and reads account
// balances. The [Executor] builds, signs, and submits a balanced two-leg
// transfer end to end; the facilitator uses a read-only [Client] for
// receipt lookups.
package ledger

import (
	"context"

	"github.com/veridia/paycore/models"
)

// StatusSuccess is the receipt status reported by the ledger for a
// finalized, successful transaction. Any other status (including pending
// and unknown ones) is treated as not-successful by consumers.
const StatusSuccess = "SUCCESS"

// Receipt is the ledger's post-consensus verdict on a transaction.
type Receipt struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// TransferLeg is one side of a balanced transfer: a debit (negative
// amount) or a credit (positive amount) against an account.
type TransferLeg struct {
	AccountID string         `json:"accountId"`
	Amount    models.Tinybar `json:"amount"`
}

// Transfer is the frozen transaction body. Its JSON encoding is the
// canonical byte sequence the payer signs; field order is fixed by the
// struct definition so the signature is reproducible.
type Transfer struct {
	TransactionID string         `json:"transactionId"`
	Network       models.Network `json:"network"`
	Transfers     []TransferLeg  `json:"transfers"`
	Memo          string         `json:"memo,omitempty"`
}

// SignedTransfer carries the frozen body together with the payer's
// ed25519 signature over the body's canonical JSON encoding.
type SignedTransfer struct {
	Body      Transfer `json:"body"`
	Signature string   `json:"signature"`
	PublicKey string   `json:"publicKey"`
}

// Client is a connection to one network's ledger gateway.
//
// Implementations are owned by their creator: Close must be called when
// the client is no longer needed.
type Client interface {
	// SubmitTransfer submits a signed transfer and returns the gateway's
	// immediate acknowledgement.
	SubmitTransfer(ctx context.Context, tx SignedTransfer) (Receipt, error)

	// QueryReceipt fetches the post-consensus receipt for a transaction.
	QueryReceipt(ctx context.Context, transactionID string) (Receipt, error)

	// QueryBalance returns the current tinybar balance of an account.
	QueryBalance(ctx context.Context, accountID string) (models.Tinybar, error)

	Close()
}

// ClientFactory builds ledger clients. One client is created per transfer
// invocation so no operator identity is shared between concurrent
// payments.
type ClientFactory interface {
	// New returns a client bound to the operator's network.
	New(operator models.PayerCredential) (Client, error)

	// NewReadOnly returns a client for receipt and balance queries only.
	NewReadOnly(network models.Network) (Client, error)
}

// TransferExecutor executes one payer-to-recipient transfer end to end.
type TransferExecutor interface {
	Execute(ctx context.Context, payer models.PayerCredential, recipient string, amount models.Tinybar) (models.TransferResult, error)
}
