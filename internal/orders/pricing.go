package orders

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"comanda-system/internal/database/models"
)

// GenerateOrderNumber builds a unique, human-readable order number, e.g.
// ORD-20250831143052-9F3A.
func GenerateOrderNumber() string {
	buf := make([]byte, 2)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to the low bits of the clock; the unique index on
		// order_number still catches a collision.
		buf[0] = byte(time.Now().UnixNano())
		buf[1] = byte(time.Now().UnixNano() >> 8)
	}
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102150405"), suffix)
}

// LineTotal multiplies a snapshot unit price by quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int32) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt32(quantity))
}

// ComputeTotal sums the given line totals and subtracts the discount.
func ComputeTotal(lineTotals []decimal.Decimal, discount decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, lt := range lineTotals {
		total = total.Add(lt)
	}
	return total.Sub(discount)
}

// ResolveUnitPrice picks the price for one menu item given the order channel
// and an optional location-scoped override. Takeaway falls back from the
// location takeaway price to the item takeaway price to the base price;
// dine-in from the location dine-in price to the base price.
func ResolveUnitPrice(item *models.MenuItem, locPrice *models.LocationPrice, orderType string) (decimal.Decimal, error) {
	raw := item.Price
	if orderType == models.OrderTypeTakeaway {
		if locPrice != nil && locPrice.TakeawayPrice != nil {
			raw = *locPrice.TakeawayPrice
		} else if item.TakeawayPrice != nil {
			raw = *item.TakeawayPrice
		}
	} else if locPrice != nil && locPrice.DineInPrice != nil {
		raw = *locPrice.DineInPrice
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q for menu item %d: %w", raw, item.ID, err)
	}
	return price, nil
}

// IsOrderable reports whether the item can be ordered on the given channel,
// honoring a location-scoped availability override when present.
func IsOrderable(item *models.MenuItem, locPrice *models.LocationPrice, orderType string) bool {
	if !item.IsActive {
		return false
	}
	if orderType == models.OrderTypeTakeaway {
		available := item.IsAvailableTakeaway || item.IsTakeawayOnly
		if locPrice != nil {
			available = locPrice.IsAvailableTakeaway
		}
		return available
	}
	if item.IsTakeawayOnly {
		return false
	}
	available := item.IsAvailable
	if locPrice != nil {
		available = locPrice.IsAvailable
	}
	return available
}
