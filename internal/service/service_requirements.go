package service

import (
	"fmt"

	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/models"
)

// IssueRequirements builds the 402 challenge for one resource. It is a
// pure function of its inputs: no clock, no storage, no network. An empty
// resource or price falls back to the configured defaults.
//
// The price is converted from HBAR to tinybar by truncation; the amount a
// payer is asked for is never rounded up.
func IssueRequirements(resource, priceHbar string, cfg config.Payments) (models.PaymentRequirements, error) {
	if resource == "" {
		resource = cfg.Resource
	}
	if priceHbar == "" {
		priceHbar = cfg.PriceHbar
	}

	if resource == "" {
		return models.PaymentRequirements{}, fmt.Errorf("%w: resource is required", ErrInvalidRequirements)
	}
	if !models.ValidAccountID(cfg.PayTo) {
		return models.PaymentRequirements{}, fmt.Errorf("%w: payTo %q is not a valid account", ErrInvalidRequirements, cfg.PayTo)
	}
	if cfg.FeePayer != "" && !models.ValidAccountID(cfg.FeePayer) {
		return models.PaymentRequirements{}, fmt.Errorf("%w: feePayer %q is not a valid account", ErrInvalidRequirements, cfg.FeePayer)
	}

	network, err := models.NormalizeNetwork(cfg.Network)
	if err != nil {
		return models.PaymentRequirements{}, fmt.Errorf("%w: %w", ErrInvalidRequirements, err)
	}

	amount, err := models.ParseHbar(priceHbar)
	if err != nil {
		return models.PaymentRequirements{}, fmt.Errorf("%w: %w", ErrInvalidRequirements, err)
	}
	if amount <= 0 {
		return models.PaymentRequirements{}, fmt.Errorf("%w: price must be positive", ErrInvalidRequirements)
	}

	maxTimeout := cfg.MaxTimeoutSeconds
	if maxTimeout <= 0 {
		maxTimeout = 60
	}

	return models.PaymentRequirements{
		Scheme:            models.SchemeExact,
		Network:           network,
		MaxAmountRequired: amount.String(),
		Resource:          resource,
		PayTo:             cfg.PayTo,
		MaxTimeoutSeconds: maxTimeout,
		Extra:             models.RequirementsExtra{FeePayer: cfg.FeePayer},
	}, nil
}
