package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"comanda-system/internal/database/models"
)

func TestCanTransitionAcceptsOnlyLegalAdvances(t *testing.T) {
	legal := []struct{ from, to string }{
		{models.OrderStatusPending, models.OrderStatusConfirmed},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusConfirmed, models.OrderStatusPreparing},
		{models.OrderStatusPreparing, models.OrderStatusReady},
		{models.OrderStatusReady, models.OrderStatusServed},
	}

	all := []string{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusServed,
		models.OrderStatusCancelled,
	}

	isLegal := func(from, to string) bool {
		for _, pair := range legal {
			if pair.from == from && pair.to == to {
				return true
			}
		}
		return false
	}

	for _, from := range all {
		for _, to := range all {
			got := CanTransition(from, to)
			assert.Equal(t, isLegal(from, to), got, "transition %s -> %s", from, to)
		}
	}
}

func TestPendingCannotSkipToPreparing(t *testing.T) {
	assert.False(t, CanTransition(models.OrderStatusPending, models.OrderStatusPreparing))
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	targets := []string{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusServed,
		models.OrderStatusCancelled,
	}
	for _, to := range targets {
		assert.False(t, CanTransition(models.OrderStatusServed, to), "served -> %s", to)
		assert.False(t, CanTransition(models.OrderStatusCancelled, to), "cancelled -> %s", to)
	}
}

func TestCancellationOnlyFromPending(t *testing.T) {
	assert.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusCancelled))
	assert.False(t, CanTransition(models.OrderStatusConfirmed, models.OrderStatusCancelled))
	assert.False(t, CanTransition(models.OrderStatusPreparing, models.OrderStatusCancelled))
	assert.False(t, CanTransition(models.OrderStatusReady, models.OrderStatusCancelled))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.OrderStatusServed))
	assert.True(t, IsTerminal(models.OrderStatusCancelled))
	assert.False(t, IsTerminal(models.OrderStatusPending))
	assert.False(t, IsTerminal(models.OrderStatusReady))
}

func TestNextStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{models.OrderStatusConfirmed, models.OrderStatusCancelled},
		NextStatuses(models.OrderStatusPending))
	assert.Empty(t, NextStatuses(models.OrderStatusServed))
	assert.Empty(t, NextStatuses(models.OrderStatusCancelled))
}

func TestIllegalTransitionErrorMessage(t *testing.T) {
	err := &IllegalTransitionError{From: models.OrderStatusPending, To: models.OrderStatusReady}
	assert.Contains(t, err.Error(), "illegal transition")
	assert.Contains(t, err.Error(), "pending")
	assert.Contains(t, err.Error(), "ready")

	terminal := &IllegalTransitionError{From: models.OrderStatusServed, To: models.OrderStatusCancelled}
	assert.Contains(t, terminal.Error(), "terminal")
}
