package printing

import (
	"context"
	"sync"

	"comanda-system/internal/database/models"
)

// OrderLoader is the slice of the orders service the dispatcher needs.
type OrderLoader interface {
	Get(ctx context.Context, orderID int64) (*models.Order, error)
}

type PrintResult struct {
	PrinterID   int64  `json:"printer_id"`
	PrinterName string `json:"printer_name,omitempty"`
	Destination string `json:"destination"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// Dispatcher routes an order's tickets to the active printers of each
// destination. Sends fan out concurrently, one goroutine per
// (ticket, printer) pair, and all results are joined before returning.
// Failures are reported per pair and never abort the rest of the call.
type Dispatcher struct {
	orders    OrderLoader
	printers  PrinterStore
	gateway   Gateway
	formatter *Formatter
}

func NewDispatcher(orders OrderLoader, printers PrinterStore, gateway Gateway, formatter *Formatter) *Dispatcher {
	return &Dispatcher{
		orders:    orders,
		printers:  printers,
		gateway:   gateway,
		formatter: formatter,
	}
}

// PrintOrder formats the order and sends each ticket to every active
// printer of its destination. requested narrows the call to one
// destination; "all" or empty sends everything.
func (d *Dispatcher) PrintOrder(ctx context.Context, orderID int64, requested string) ([]PrintResult, error) {
	order, err := d.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	tickets := d.formatter.FormatOrder(order)
	if requested != "" && requested != "all" {
		filtered := tickets[:0]
		for _, ticket := range tickets {
			if ticket.Destination == requested {
				filtered = append(filtered, ticket)
			}
		}
		tickets = filtered
	}

	type job struct {
		printer models.PrinterConfig
		payload []byte
		result  int
	}

	var results []PrintResult
	var jobs []job

	for _, ticket := range tickets {
		printers, err := d.printers.ListActive(ctx, ticket.Destination)
		if err != nil {
			return nil, err
		}
		if len(printers) == 0 {
			results = append(results, PrintResult{
				Destination: ticket.Destination,
				Success:     false,
				Error:       "no active printer configured",
			})
			continue
		}

		payload := ticket.Render()
		for _, printer := range printers {
			results = append(results, PrintResult{
				PrinterID:   printer.ID,
				PrinterName: printer.Name,
				Destination: ticket.Destination,
			})
			jobs = append(jobs, job{printer: printer, payload: payload, result: len(results) - 1})
		}
	}

	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			if err := d.gateway.Send(ctx, j.printer, j.payload); err != nil {
				results[j.result].Error = err.Error()
				return
			}
			results[j.result].Success = true
		}(j)
	}
	wg.Wait()

	return results, nil
}

// TestPrinter sends a test page through the same path as real tickets.
func (d *Dispatcher) TestPrinter(ctx context.Context, printerID int64) (PrintResult, error) {
	printer, err := d.printers.Get(ctx, printerID)
	if err != nil {
		return PrintResult{}, err
	}

	result := PrintResult{
		PrinterID:   printer.ID,
		PrinterName: printer.Name,
		Destination: printer.PrinterType,
	}
	if err := d.gateway.Test(ctx, *printer); err != nil {
		result.Error = err.Error()
		return result, nil
	}
	result.Success = true
	return result, nil
}
