package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/models"
)

const defaultGatewayTimeout = 15 * time.Second

// restClientFactory builds REST-gateway clients from the per-network base
// URLs in the ledger configuration.
type restClientFactory struct {
	cfg    config.Ledger
	logger *logger.Logger
}

// NewRESTClientFactory returns a [ClientFactory] backed by the JSON ledger
// gateway configured per network.
func NewRESTClientFactory(cfg config.Ledger, log *logger.Logger) ClientFactory {
	return &restClientFactory{cfg: cfg, logger: log}
}

// New implements [ClientFactory]. The operator's account grammar is checked
// here so that a corrupt credential fails before any network traffic.
func (f *restClientFactory) New(operator models.PayerCredential) (Client, error) {
	if !models.ValidAccountID(operator.OperatorAccountID) {
		return nil, fmt.Errorf("operator account %q: malformed", operator.OperatorAccountID)
	}
	return f.NewReadOnly(operator.Network)
}

// NewReadOnly implements [ClientFactory].
func (f *restClientFactory) NewReadOnly(network models.Network) (Client, error) {
	baseURL, err := f.baseURLFor(network)
	if err != nil {
		return nil, err
	}

	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultGatewayTimeout)

	return &restClient{client: cli, network: network, logger: f.logger}, nil
}

func (f *restClientFactory) baseURLFor(network models.Network) (string, error) {
	var raw string
	switch network {
	case models.NetworkMainnet:
		raw = f.cfg.MainnetURL
	case models.NetworkTestnet:
		raw = f.cfg.TestnetURL
	case models.NetworkPreviewnet:
		raw = f.cfg.PreviewnetURL
	default:
		return "", fmt.Errorf("%w: %s", models.ErrUnknownNetwork, network)
	}

	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: %s", ErrNoGatewayURL, network)
	}
	return normalizeBaseURL(raw)
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("gateway url must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// restClient talks to one network's JSON gateway.
type restClient struct {
	client  *resty.Client
	network models.Network
	logger  *logger.Logger
}

type balanceResponse struct {
	AccountID string         `json:"accountId"`
	Balance   models.Tinybar `json:"balance"`
}

func (c *restClient) SubmitTransfer(ctx context.Context, tx SignedTransfer) (Receipt, error) {
	var ack Receipt

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(tx).
		SetResult(&ack).
		Post("/api/v1/transactions")
	if err != nil {
		return Receipt{}, fmt.Errorf("submit transfer request: %w", err)
	}
	if err = mapGatewayError(resp); err != nil {
		return Receipt{}, err
	}

	return ack, nil
}

func (c *restClient) QueryReceipt(ctx context.Context, transactionID string) (Receipt, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("transactionId", transactionID).
		Get("/api/v1/transactions/{transactionId}/receipt")
	if err != nil {
		return Receipt{}, fmt.Errorf("receipt request: %w", err)
	}
	if err = mapGatewayError(resp); err != nil {
		return Receipt{}, err
	}

	var receipt Receipt
	if err = json.Unmarshal(resp.Body(), &receipt); err != nil {
		return Receipt{}, fmt.Errorf("decode receipt response: %w", err)
	}

	return receipt, nil
}

func (c *restClient) QueryBalance(ctx context.Context, accountID string) (models.Tinybar, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("accountId", accountID).
		Get("/api/v1/accounts/{accountId}/balance")
	if err != nil {
		return 0, fmt.Errorf("balance request: %w", err)
	}
	if err = mapGatewayError(resp); err != nil {
		return 0, err
	}

	var body balanceResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, fmt.Errorf("decode balance response: %w", err)
	}

	return body.Balance, nil
}

// Close implements [Client]. The resty client holds no connections of its
// own beyond the shared transport, so this is a no-op kept for the
// interface contract.
func (c *restClient) Close() {}

func mapGatewayError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("ledger gateway http %d: %s", resp.StatusCode(), body)
}
