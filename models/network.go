package models

import (
	"errors"
	"fmt"
	"strings"
)

// Network identifies the target Hedera network for a payment. The canonical
// tokens carry the "hedera-" prefix; NormalizeNetwork maps the short forms
// stored in older credential rows onto the canonical set.
type Network string

const (
	NetworkMainnet    Network = "hedera-mainnet"
	NetworkTestnet    Network = "hedera-testnet"
	NetworkPreviewnet Network = "hedera-previewnet"
)

// ErrUnknownNetwork is returned when a network name cannot be mapped onto
// one of the canonical tokens.
var ErrUnknownNetwork = errors.New("unknown network")

// NormalizeNetwork maps a stored or user-supplied network name onto one of
// the canonical Network tokens. Matching is case-insensitive and tolerates
// the short forms ("testnet") written by credential rows that predate the
// canonical naming.
func NormalizeNetwork(name string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mainnet", "hedera-mainnet":
		return NetworkMainnet, nil
	case "testnet", "hedera-testnet":
		return NetworkTestnet, nil
	case "previewnet", "hedera-previewnet":
		return NetworkPreviewnet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
}
