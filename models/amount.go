package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TinybarPerHbar is the number of minor units in one HBAR.
const TinybarPerHbar int64 = 100_000_000

// hbarDecimals is the number of fractional digits an HBAR amount can carry
// before truncation.
const hbarDecimals = 8

// Tinybar is an HBAR amount expressed in the ledger's minor unit.
// All payment arithmetic is done in Tinybar so that no floating-point
// rounding can ever change the amount a user is charged or transferred.
type Tinybar int64

// ErrInvalidAmount is returned when an amount string cannot be parsed as a
// non-negative decimal number.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseHbar converts a human-readable HBAR amount (a decimal string such as
// "0.001" or "12") into Tinybar.
//
// Fractional digits beyond the tinybar resolution are truncated, never
// rounded up: undercharging by a sub-tinybar artifact is acceptable,
// overcharging is not. Negative amounts and non-numeric input return
// [ErrInvalidAmount].
func ParseHbar(amount string) (Tinybar, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" || strings.HasPrefix(amount, "-") || strings.HasPrefix(amount, "+") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	wholePart := amount
	fracPart := ""
	if idx := strings.IndexByte(amount, '.'); idx >= 0 {
		wholePart, fracPart = amount[:idx], amount[idx+1:]
	}
	if wholePart == "" && fracPart == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if wholePart == "" {
		wholePart = "0"
	}

	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	// Pad or truncate the fractional part to exactly tinybar resolution.
	if len(fracPart) > hbarDecimals {
		fracPart = fracPart[:hbarDecimals]
	}
	for len(fracPart) < hbarDecimals {
		fracPart += "0"
	}

	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	if whole > (1<<63-1)/TinybarPerHbar {
		return 0, fmt.Errorf("%w: amount overflows tinybar range", ErrInvalidAmount)
	}

	return Tinybar(whole*TinybarPerHbar + frac), nil
}

// ParseTinybar parses a minor-unit amount transmitted as a decimal integer
// string (the wire form of maxAmountRequired). The amount must be a
// positive integer.
func ParseTinybar(amount string) (Tinybar, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(amount), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return Tinybar(v), nil
}

// Hbar renders the amount as a human-readable HBAR decimal string with
// trailing fractional zeros removed ("100000000" tinybar -> "1").
func (t Tinybar) Hbar() string {
	whole := int64(t) / TinybarPerHbar
	frac := int64(t) % TinybarPerHbar
	if frac < 0 {
		frac = -frac
	}
	if frac == 0 {
		return strconv.FormatInt(whole, 10)
	}

	fracStr := strings.TrimRight(fmt.Sprintf("%08d", frac), "0")
	return fmt.Sprintf("%d.%s", whole, fracStr)
}

// String renders the amount as a decimal integer string of tinybar,
// the wire form used in PaymentRequirements.MaxAmountRequired.
func (t Tinybar) String() string {
	return strconv.FormatInt(int64(t), 10)
}
