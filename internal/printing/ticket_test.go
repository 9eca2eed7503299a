package printing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comanda-system/internal/database/models"
)

func sampleOrder() *models.Order {
	kitchen := &models.MenuCategory{ID: 1, Name: "Mains", PrinterDestination: models.DestinationKitchen}
	bar := &models.MenuCategory{ID: 2, Name: "Drinks", PrinterDestination: models.DestinationBar}
	noNuts := "no nuts"

	return &models.Order{
		ID:             1,
		OrderNumber:    "ORD-20250831120000-AB12",
		Status:         models.OrderStatusPending,
		OrderType:      models.OrderTypeDineIn,
		TotalAmount:    "14.00",
		DiscountAmount: "1.00",
		CreatedAt:      time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC),
		Table:          &models.Table{ID: 3, TableNumber: "T5"},
		Waiter:         &models.User{Firstname: "Ana", Lastname: "Silva"},
		Items: []models.OrderItem{
			{
				MenuItemID:          10,
				Quantity:            2,
				UnitPrice:           "3.50",
				TotalPrice:          "7.00",
				SpecialInstructions: &noNuts,
				MenuItem:            &models.MenuItem{ID: 10, Name: "Pad Thai", Category: kitchen},
			},
			{
				MenuItemID: 11,
				Quantity:   1,
				UnitPrice:  "8.00",
				TotalPrice: "8.00",
				MenuItem:   &models.MenuItem{ID: 11, Name: "Mojito", Category: bar},
			},
		},
	}
}

func ticketFor(t *testing.T, tickets []Ticket, destination string) Ticket {
	t.Helper()
	for _, ticket := range tickets {
		if ticket.Destination == destination {
			return ticket
		}
	}
	t.Fatalf("no ticket for destination %q", destination)
	return Ticket{}
}

func TestFormatOrderGroupsByDestination(t *testing.T) {
	f := NewFormatter("")
	tickets := f.FormatOrder(sampleOrder())

	// One ticket per destination present, plus the receipt.
	require.Len(t, tickets, 3)

	kitchen := ticketFor(t, tickets, models.DestinationKitchen)
	require.Len(t, kitchen.Lines, 1)
	assert.Equal(t, "Pad Thai", kitchen.Lines[0].Name)
	assert.Equal(t, int32(2), kitchen.Lines[0].Quantity)
	assert.Equal(t, "no nuts", kitchen.Lines[0].Instructions)

	bar := ticketFor(t, tickets, models.DestinationBar)
	require.Len(t, bar.Lines, 1)
	assert.Equal(t, "Mojito", bar.Lines[0].Name)

	receipt := ticketFor(t, tickets, models.DestinationReceipt)
	assert.True(t, receipt.IsReceipt)
	require.Len(t, receipt.Lines, 2)
	assert.Equal(t, "15.00", receipt.Subtotal)
	assert.Equal(t, "1.00", receipt.DiscountAmount)
	assert.Equal(t, "14.00", receipt.TotalAmount)
}

func TestFormatOrderFallsBackToDefaultDestination(t *testing.T) {
	order := sampleOrder()
	// Strip routing: a category with no destination configured.
	order.Items[1].MenuItem.Category = &models.MenuCategory{ID: 2, Name: "Drinks"}

	f := NewFormatter(models.DestinationKitchen)
	tickets := f.FormatOrder(order)

	// Both items land on the kitchen ticket; no bar ticket remains.
	require.Len(t, tickets, 2)
	kitchen := ticketFor(t, tickets, models.DestinationKitchen)
	assert.Len(t, kitchen.Lines, 2)
}

func TestFormatterDefaultsToKitchen(t *testing.T) {
	f := NewFormatter("")
	assert.Equal(t, models.DestinationKitchen, f.DefaultDestination)

	f = NewFormatter(models.DestinationBar)
	assert.Equal(t, models.DestinationBar, f.DefaultDestination)
}

func TestFormatOrderMissingMenuItemStillPrints(t *testing.T) {
	order := sampleOrder()
	order.Items = order.Items[:1]
	order.Items[0].MenuItem = nil

	f := NewFormatter("")
	tickets := f.FormatOrder(order)

	require.Len(t, tickets, 2)
	kitchen := ticketFor(t, tickets, models.DestinationKitchen)
	require.Len(t, kitchen.Lines, 1)
	assert.Equal(t, "item #10", kitchen.Lines[0].Name)
}

func TestRenderKitchenTicket(t *testing.T) {
	f := NewFormatter("")
	tickets := f.FormatOrder(sampleOrder())
	kitchen := ticketFor(t, tickets, models.DestinationKitchen)

	text := string(kitchen.Render())
	assert.Contains(t, text, "KITCHEN ORDER")
	assert.Contains(t, text, "Order: ORD-20250831120000-AB12")
	assert.Contains(t, text, "Table: T5")
	assert.Contains(t, text, "Waiter: Ana Silva")
	assert.Contains(t, text, "2x Pad Thai")
	assert.Contains(t, text, "Note: no nuts")
	assert.Contains(t, text, "Total Kitchen Items: 1")
	assert.NotContains(t, text, "3.50")
}

func TestRenderReceipt(t *testing.T) {
	f := NewFormatter("")
	tickets := f.FormatOrder(sampleOrder())
	receipt := ticketFor(t, tickets, models.DestinationReceipt)

	text := string(receipt.Render())
	assert.Contains(t, text, "RECEIPT")
	assert.Contains(t, text, "3.50 each")
	assert.Contains(t, text, "Subtotal: 15.00")
	assert.Contains(t, text, "Discount: -1.00")
	assert.Contains(t, text, "TOTAL: 14.00")
	assert.Contains(t, text, "Thank you for dining with us!")
}

func TestRenderTakeawayHeader(t *testing.T) {
	order := sampleOrder()
	order.OrderType = models.OrderTypeTakeaway
	order.Table = nil
	customer := "Jo"
	order.CustomerName = &customer

	f := NewFormatter("")
	tickets := f.FormatOrder(order)
	kitchen := ticketFor(t, tickets, models.DestinationKitchen)

	text := string(kitchen.Render())
	assert.Contains(t, text, "TAKEAWAY ORDER")
	assert.Contains(t, text, "Customer: Jo")
	assert.NotContains(t, text, "Table:")
}

func TestRenderSkipsZeroDiscount(t *testing.T) {
	order := sampleOrder()
	order.DiscountAmount = "0.00"
	order.TotalAmount = "15.00"

	f := NewFormatter("")
	tickets := f.FormatOrder(order)
	receipt := ticketFor(t, tickets, models.DestinationReceipt)

	text := string(receipt.Render())
	assert.NotContains(t, text, "Discount:")
}
