package ledger

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/models"
)

// Executor builds, signs, submits, and confirms one balanced transfer per
// invocation. It is deliberately not idempotent and performs no internal
// retries: a second call with the same arguments moves money a second
// time. Retry policy belongs to the caller.
type Executor struct {
	factory ClientFactory
	logger  *logger.Logger
}

// NewExecutor constructs a [TransferExecutor] that obtains a fresh ledger
// client from factory for every execution.
func NewExecutor(factory ClientFactory, log *logger.Logger) *Executor {
	return &Executor{factory: factory, logger: log}
}

// Execute moves amount tinybar from the payer's operator account to
// recipient. Recipient grammar and amount positivity are rejected before
// any network call. When the gateway answers balance queries, an
// insufficient payer balance aborts the transfer before submission.
//
// Every failure is wrapped under [ErrTransferFailed] with a more specific
// kind ([ErrInvalidRecipient], [ErrNoPayerKey], [ErrSubmitFailed], ...).
func (e *Executor) Execute(ctx context.Context, payer models.PayerCredential, recipient string, amount models.Tinybar) (models.TransferResult, error) {
	log := logger.FromContext(ctx)

	if !models.ValidAccountID(recipient) {
		return models.TransferResult{}, wrapTransfer(ErrInvalidRecipient, fmt.Errorf("%q", recipient))
	}
	if amount <= 0 {
		return models.TransferResult{}, wrapTransfer(ErrNonPositiveAmount, fmt.Errorf("%d tinybar", amount))
	}

	key, err := ParsePrivateKey(payer.PrivateKey)
	if err != nil {
		return models.TransferResult{}, wrapTransfer(ErrNoPayerKey, err)
	}

	client, err := e.factory.New(payer)
	if err != nil {
		return models.TransferResult{}, wrapTransfer(ErrSubmitFailed, err)
	}
	defer client.Close()

	if err = e.preflightBalance(ctx, client, payer.OperatorAccountID, amount); err != nil {
		return models.TransferResult{}, err
	}

	body := Transfer{
		TransactionID: newTransactionID(payer.OperatorAccountID),
		Network:       payer.Network,
		Transfers: []TransferLeg{
			{AccountID: payer.OperatorAccountID, Amount: -amount},
			{AccountID: recipient, Amount: amount},
		},
	}

	signed, err := freezeAndSign(body, key)
	if err != nil {
		return models.TransferResult{}, wrapTransfer(ErrSubmitFailed, err)
	}

	if _, err = client.SubmitTransfer(ctx, signed); err != nil {
		log.Err(err).
			Str("func", "Executor.Execute").
			Str("transaction_id", body.TransactionID).
			Str("recipient", recipient).
			Msg("transfer submission failed")
		return models.TransferResult{}, wrapTransfer(ErrSubmitFailed, err)
	}

	receipt, err := client.QueryReceipt(ctx, body.TransactionID)
	if err != nil {
		log.Err(err).
			Str("func", "Executor.Execute").
			Str("transaction_id", body.TransactionID).
			Msg("receipt query failed after submission")
		return models.TransferResult{}, wrapTransfer(ErrReceiptFailed, err)
	}

	log.Info().
		Str("func", "Executor.Execute").
		Str("transaction_id", body.TransactionID).
		Str("status", receipt.Status).
		Int64("amount_tinybar", int64(amount)).
		Msg("transfer executed")

	return models.TransferResult{
		TransactionID: body.TransactionID,
		Status:        receipt.Status,
		AmountTinybar: amount,
	}, nil
}

// preflightBalance is best-effort: a failing balance query never blocks
// the transfer, only a successful query reporting too little does.
func (e *Executor) preflightBalance(ctx context.Context, client Client, accountID string, amount models.Tinybar) error {
	balance, err := client.QueryBalance(ctx, accountID)
	if err != nil {
		logger.FromContext(ctx).Debug().
			Str("func", "Executor.preflightBalance").
			Err(err).
			Msg("balance preflight unavailable, proceeding")
		return nil
	}

	if balance < amount {
		return wrapTransfer(ErrInsufficientBalance, fmt.Errorf("have %d, need %d tinybar", balance, amount))
	}
	return nil
}

// freezeAndSign marshals the transfer body to its canonical JSON form and
// signs those exact bytes with the payer's key.
func freezeAndSign(body Transfer, key ed25519.PrivateKey) (SignedTransfer, error) {
	frozen, err := json.Marshal(body)
	if err != nil {
		return SignedTransfer{}, fmt.Errorf("freeze transaction body: %w", err)
	}

	sig := ed25519.Sign(key, frozen)
	pub := key.Public().(ed25519.PublicKey)

	return SignedTransfer{
		Body:      body,
		Signature: hex.EncodeToString(sig),
		PublicKey: hex.EncodeToString(pub),
	}, nil
}

// newTransactionID derives the ledger transaction identifier in
// "payer@seconds.nanos" form from the submission wall clock.
func newTransactionID(payerAccountID string) string {
	now := time.Now()
	return fmt.Sprintf("%s@%d.%d", payerAccountID, now.Unix(), now.Nanosecond())
}
