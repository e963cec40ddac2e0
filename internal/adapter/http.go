package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/models"
)

const defaultFacilitatorTimeout = 15 * time.Second

// verifyRequest is the wire body of POST /verify and POST /settle.
type verifyRequest struct {
	PaymentPayload      models.PaymentPayload      `json:"paymentPayload"`
	PaymentRequirements models.PaymentRequirements `json:"paymentRequirements"`
}

type httpFacilitatorClient struct {
	client *resty.Client
	logger *logger.Logger
}

// NewHTTPFacilitatorClient constructs an HTTP/JSON implementation of
// [FacilitatorClient]. It normalises and validates the base URL from
// cfg.BaseURL and configures the underlying client with the resolved base
// URL and request timeout.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid
// URL.
func NewHTTPFacilitatorClient(cfg config.Facilitator, log *logger.Logger) (FacilitatorClient, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid facilitator base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultFacilitatorTimeout
	}

	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &httpFacilitatorClient{client: cli, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Verify implements [FacilitatorClient]. It POSTs the claim to
// POST /verify and decodes the facilitator's verdict. Returns an error if
// the request fails or the server returns a non-2xx status.
func (h *httpFacilitatorClient) Verify(ctx context.Context, payload models.PaymentPayload, requirements models.PaymentRequirements) (models.VerificationResult, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(verifyRequest{PaymentPayload: payload, PaymentRequirements: requirements}).
		Post("/verify")
	if err != nil {
		return models.VerificationResult{}, fmt.Errorf("verify request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VerificationResult{}, err
	}

	var result models.VerificationResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.VerificationResult{}, fmt.Errorf("decode verify response: %w", err)
	}

	return result, nil
}

// Settle implements [FacilitatorClient]. It POSTs the claim to
// POST /settle and decodes the settlement outcome.
func (h *httpFacilitatorClient) Settle(ctx context.Context, payload models.PaymentPayload, requirements models.PaymentRequirements) (models.SettlementResult, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(verifyRequest{PaymentPayload: payload, PaymentRequirements: requirements}).
		Post("/settle")
	if err != nil {
		return models.SettlementResult{}, fmt.Errorf("settle request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SettlementResult{}, err
	}

	var result models.SettlementResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.SettlementResult{}, fmt.Errorf("decode settle response: %w", err)
	}

	return result, nil
}
