package orders

import (
	"fmt"

	"comanda-system/internal/database/models"
)

// transitions maps each status to the set of statuses reachable from it in
// a single step. Terminal statuses have no entries. Cancellation is only
// offered before the kitchen has been told to start.
var transitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusPreparing},
	models.OrderStatusPreparing: {models.OrderStatusReady},
	models.OrderStatusReady:     {models.OrderStatusServed},
}

// CanTransition reports whether moving from current to target is a legal
// single-step advance.
func CanTransition(current, target string) bool {
	for _, next := range transitions[current] {
		if next == target {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal next statuses from current. Empty for
// terminal statuses.
func NextStatuses(current string) []string {
	return transitions[current]
}

func IsTerminal(status string) bool {
	return status == models.OrderStatusServed || status == models.OrderStatusCancelled
}

func IsValidStatus(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusPreparing,
		models.OrderStatusReady, models.OrderStatusServed, models.OrderStatusCancelled:
		return true
	}
	return false
}

type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	if IsTerminal(e.From) {
		return fmt.Sprintf("illegal transition: %s is a terminal status", e.From)
	}
	return fmt.Sprintf("illegal transition: %s -> %s", e.From, e.To)
}
