package printing

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"comanda-system/internal/database/models"
)

// Gateway delivers raw bytes to a network thermal printer. It does not
// retry, queue, or buffer; callers decide whether to re-print.
type Gateway interface {
	Send(ctx context.Context, printer models.PrinterConfig, payload []byte) error
	Test(ctx context.Context, printer models.PrinterConfig) error
}

// TCPGateway writes to printers over raw TCP, the protocol thermal
// printers listen on (conventionally port 9100).
type TCPGateway struct {
	timeout time.Duration
}

func NewTCPGateway(timeout time.Duration) *TCPGateway {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TCPGateway{timeout: timeout}
}

func (g *TCPGateway) Send(ctx context.Context, printer models.PrinterConfig, payload []byte) error {
	addr := fmt.Sprintf("%s:%d", printer.IPAddress, printer.Port)

	dialer := net.Dialer{Timeout: g.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to printer %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(g.timeout)); err != nil {
		return fmt.Errorf("set write deadline for printer %s: %w", addr, err)
	}

	for len(payload) > 0 {
		n, err := conn.Write(payload)
		if err != nil {
			return fmt.Errorf("write to printer %s: %w", addr, err)
		}
		payload = payload[n:]
	}

	return nil
}

func (g *TCPGateway) Test(ctx context.Context, printer models.PrinterConfig) error {
	return g.Send(ctx, printer, testPage(printer))
}

func testPage(printer models.PrinterConfig) []byte {
	var b strings.Builder
	rule := strings.Repeat("=", ticketWidth)

	b.WriteString("\n" + rule + "\n")
	b.WriteString("PRINTER TEST\n")
	b.WriteString(fmt.Sprintf("Printer: %s\n", printer.Name))
	b.WriteString(fmt.Sprintf("Type: %s\n", printer.PrinterType))
	b.WriteString(fmt.Sprintf("Address: %s:%d\n", printer.IPAddress, printer.Port))
	b.WriteString(fmt.Sprintf("Time: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	b.WriteString(rule + "\n")
	b.WriteString("This is a test print.\n")
	b.WriteString("If you can read this,\n")
	b.WriteString("the printer is working correctly.\n")
	b.WriteString(rule + "\n\n\n")

	return []byte(b.String())
}
