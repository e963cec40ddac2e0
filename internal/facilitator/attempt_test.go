package facilitator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttempt_HappyPath(t *testing.T) {
	a := NewAttempt()
	assert.Equal(t, StateRequested, a.State())

	require.NoError(t, a.Transferred())
	assert.Equal(t, StateTransferred, a.State())

	require.NoError(t, a.Verified(true))
	assert.Equal(t, StateVerifiedValid, a.State())
	assert.False(t, a.Terminal())

	require.NoError(t, a.Settled(true))
	assert.Equal(t, StateSettledSuccess, a.State())
	assert.True(t, a.Terminal())
}

func TestAttempt_InvalidVerificationIsTerminal(t *testing.T) {
	a := NewAttempt()
	require.NoError(t, a.Transferred())
	require.NoError(t, a.Verified(false))

	assert.Equal(t, StateVerifiedInvalid, a.State())
	assert.True(t, a.Terminal())

	err := a.Settled(true)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateVerifiedInvalid, a.State(), "failed transition must not move the state")
}

func TestAttempt_FailedSettlementIsTerminal(t *testing.T) {
	a := NewAttempt()
	require.NoError(t, a.Transferred())
	require.NoError(t, a.Verified(true))
	require.NoError(t, a.Settled(false))

	assert.Equal(t, StateSettledFailed, a.State())
	assert.True(t, a.Terminal())
}

func TestAttempt_IllegalEdges(t *testing.T) {
	t.Run("settle before verify", func(t *testing.T) {
		a := NewAttempt()
		require.NoError(t, a.Transferred())
		require.ErrorIs(t, a.Settled(true), ErrInvalidTransition)
	})

	t.Run("verify before transfer", func(t *testing.T) {
		a := NewAttempt()
		require.ErrorIs(t, a.Verified(true), ErrInvalidTransition)
	})

	t.Run("double transfer", func(t *testing.T) {
		a := NewAttempt()
		require.NoError(t, a.Transferred())
		require.ErrorIs(t, a.Transferred(), ErrInvalidTransition)
	})

	t.Run("settle twice", func(t *testing.T) {
		a := NewAttempt()
		require.NoError(t, a.Transferred())
		require.NoError(t, a.Verified(true))
		require.NoError(t, a.Settled(true))
		require.ErrorIs(t, a.Settled(true), ErrInvalidTransition)
	})
}
