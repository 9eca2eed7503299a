package printing

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"comanda-system/internal/database/models"
)

const ticketWidth = 32

type TicketLine struct {
	Name         string
	Quantity     int32
	Instructions string
	UnitPrice    string
	LineTotal    string
}

// Ticket is a destination-specific rendering of an order, ready to be sent
// to one printer type.
type Ticket struct {
	Destination string
	OrderNumber string
	TableNumber string
	Customer    string
	WaiterName  string
	CreatedAt   time.Time
	Lines       []TicketLine

	// Receipt tickets carry price columns and totals.
	IsReceipt      bool
	Subtotal       string
	DiscountAmount string
	TotalAmount    string
}

type Formatter struct {
	// DefaultDestination receives items whose category has no printer
	// destination. The fallback is logged per item because the rule is
	// a configured default, not confirmed intent.
	DefaultDestination string
}

func NewFormatter(defaultDestination string) *Formatter {
	if defaultDestination == "" {
		defaultDestination = models.DestinationKitchen
	}
	return &Formatter{DefaultDestination: defaultDestination}
}

// FormatOrder groups the order's items by printer destination and returns
// one ticket per destination present, plus a receipt ticket covering all
// items.
func (f *Formatter) FormatOrder(order *models.Order) []Ticket {
	grouped := make(map[string][]TicketLine)
	destOrder := []string{}
	receiptLines := make([]TicketLine, 0, len(order.Items))

	for _, item := range order.Items {
		name := fmt.Sprintf("item #%d", item.MenuItemID)
		dest := ""
		if item.MenuItem != nil {
			name = item.MenuItem.Name
			if item.MenuItem.Category != nil {
				dest = item.MenuItem.Category.PrinterDestination
			}
		}
		if dest != models.DestinationKitchen && dest != models.DestinationBar {
			log.Printf("printing: order %s item %q has no printer destination, routing to %q",
				order.OrderNumber, name, f.DefaultDestination)
			dest = f.DefaultDestination
		}

		line := TicketLine{
			Name:     name,
			Quantity: item.Quantity,
		}
		if item.SpecialInstructions != nil {
			line.Instructions = *item.SpecialInstructions
		}

		if _, seen := grouped[dest]; !seen {
			destOrder = append(destOrder, dest)
		}
		grouped[dest] = append(grouped[dest], line)

		receiptLine := line
		receiptLine.UnitPrice = item.UnitPrice
		receiptLine.LineTotal = item.TotalPrice
		receiptLines = append(receiptLines, receiptLine)
	}

	tickets := make([]Ticket, 0, len(grouped)+1)
	for _, dest := range destOrder {
		tickets = append(tickets, Ticket{
			Destination: dest,
			OrderNumber: order.OrderNumber,
			TableNumber: ticketTableNumber(order),
			Customer:    ticketCustomer(order),
			WaiterName:  ticketWaiterName(order),
			CreatedAt:   order.CreatedAt,
			Lines:       grouped[dest],
		})
	}

	subtotal := decimal.Zero
	for _, item := range order.Items {
		if lt, err := decimal.NewFromString(item.TotalPrice); err == nil {
			subtotal = subtotal.Add(lt)
		}
	}

	tickets = append(tickets, Ticket{
		Destination:    models.DestinationReceipt,
		OrderNumber:    order.OrderNumber,
		TableNumber:    ticketTableNumber(order),
		Customer:       ticketCustomer(order),
		WaiterName:     ticketWaiterName(order),
		CreatedAt:      order.CreatedAt,
		Lines:          receiptLines,
		IsReceipt:      true,
		Subtotal:       subtotal.StringFixed(2),
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.TotalAmount,
	})

	return tickets
}

// Render produces the raw text payload sent to the thermal printer.
func (t *Ticket) Render() []byte {
	var b strings.Builder
	rule := strings.Repeat("=", ticketWidth)

	b.WriteString("\n" + rule + "\n")
	if t.IsReceipt {
		b.WriteString("RECEIPT\n")
	} else {
		b.WriteString(strings.ToUpper(t.Destination) + " ORDER\n")
	}
	b.WriteString(fmt.Sprintf("Order: %s\n", t.OrderNumber))
	if t.TableNumber != "" {
		b.WriteString(fmt.Sprintf("Table: %s\n", t.TableNumber))
	} else {
		b.WriteString("TAKEAWAY ORDER\n")
		if t.Customer != "" {
			b.WriteString(fmt.Sprintf("Customer: %s\n", t.Customer))
		}
	}
	if t.WaiterName != "" {
		b.WriteString(fmt.Sprintf("Waiter: %s\n", t.WaiterName))
	}
	if t.IsReceipt {
		b.WriteString(fmt.Sprintf("Date: %s\n", t.CreatedAt.Format("2006-01-02 15:04:05")))
	} else {
		b.WriteString(fmt.Sprintf("Time: %s\n", t.CreatedAt.Format("15:04:05")))
	}
	b.WriteString(rule + "\n\n")

	for _, line := range t.Lines {
		b.WriteString(fmt.Sprintf("%dx %s\n", line.Quantity, line.Name))
		if t.IsReceipt {
			b.WriteString(fmt.Sprintf("   %s each\n", line.UnitPrice))
			b.WriteString(fmt.Sprintf("   Subtotal: %s\n", line.LineTotal))
		}
		if line.Instructions != "" {
			b.WriteString(fmt.Sprintf("   Note: %s\n", line.Instructions))
		}
		b.WriteString("\n")
	}

	if t.IsReceipt {
		b.WriteString(strings.Repeat("-", ticketWidth) + "\n")
		b.WriteString(fmt.Sprintf("Subtotal: %s\n", t.Subtotal))
		if t.DiscountAmount != "" && t.DiscountAmount != "0.00" {
			b.WriteString(fmt.Sprintf("Discount: -%s\n", t.DiscountAmount))
		}
		b.WriteString(fmt.Sprintf("TOTAL: %s\n", t.TotalAmount))
		b.WriteString(rule + "\n")
		b.WriteString("Thank you for dining with us!\n")
	} else {
		b.WriteString(rule + "\n")
		b.WriteString(fmt.Sprintf("Total %s Items: %d\n", capitalize(t.Destination), len(t.Lines)))
	}
	b.WriteString(rule + "\n\n\n")

	return []byte(b.String())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func ticketTableNumber(order *models.Order) string {
	if order.Table == nil {
		return ""
	}
	return order.Table.TableNumber
}

func ticketCustomer(order *models.Order) string {
	if order.CustomerName == nil {
		return ""
	}
	return *order.CustomerName
}

func ticketWaiterName(order *models.Order) string {
	if order.Waiter == nil {
		return ""
	}
	return order.Waiter.Firstname + " " + order.Waiter.Lastname
}
