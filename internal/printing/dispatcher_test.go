package printing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comanda-system/internal/database/models"
)

type fakeOrderLoader struct {
	order *models.Order
	err   error
}

func (f *fakeOrderLoader) Get(ctx context.Context, orderID int64) (*models.Order, error) {
	return f.order, f.err
}

type fakePrinterStore struct {
	// byType maps a printer type to its active printers.
	byType map[string][]models.PrinterConfig
}

func (f *fakePrinterStore) Get(ctx context.Context, id int64) (*models.PrinterConfig, error) {
	for _, printers := range f.byType {
		for _, p := range printers {
			if p.ID == id {
				return &p, nil
			}
		}
	}
	return nil, ErrPrinterNotFound
}

func (f *fakePrinterStore) ListActive(ctx context.Context, printerType string) ([]models.PrinterConfig, error) {
	return f.byType[printerType], nil
}

type fakeGateway struct {
	mu    sync.Mutex
	sends []int64
	// failFor makes Send fail for the given printer IDs.
	failFor map[int64]error
}

func (f *fakeGateway) Send(ctx context.Context, printer models.PrinterConfig, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, printer.ID)
	if err := f.failFor[printer.ID]; err != nil {
		return err
	}
	return nil
}

func (f *fakeGateway) Test(ctx context.Context, printer models.PrinterConfig) error {
	return f.Send(ctx, printer, nil)
}

func dispatchFixture(gw *fakeGateway, store *fakePrinterStore) *Dispatcher {
	loader := &fakeOrderLoader{order: sampleOrder()}
	return NewDispatcher(loader, store, gw, NewFormatter(""))
}

func resultFor(t *testing.T, results []PrintResult, destination string) PrintResult {
	t.Helper()
	for _, r := range results {
		if r.Destination == destination {
			return r
		}
	}
	t.Fatalf("no result for destination %q", destination)
	return PrintResult{}
}

func TestPrintOrderFansOutToAllDestinations(t *testing.T) {
	store := &fakePrinterStore{byType: map[string][]models.PrinterConfig{
		models.DestinationKitchen: {{ID: 1, Name: "Kitchen 1", PrinterType: models.DestinationKitchen}},
		models.DestinationBar:     {{ID: 2, Name: "Bar 1", PrinterType: models.DestinationBar}},
		models.DestinationReceipt: {{ID: 3, Name: "Front desk", PrinterType: models.DestinationReceipt}},
	}}
	gw := &fakeGateway{}

	results, err := dispatchFixture(gw, store).PrintOrder(context.Background(), 1, "all")
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.Success, "printer %d", r.PrinterID)
		assert.Empty(t, r.Error)
	}
	assert.ElementsMatch(t, []int64{1, 2, 3}, gw.sends)
}

func TestPrintOrderReportsMissingPrinter(t *testing.T) {
	// Kitchen has a printer, bar and receipt do not.
	store := &fakePrinterStore{byType: map[string][]models.PrinterConfig{
		models.DestinationKitchen: {{ID: 1, Name: "Kitchen 1", PrinterType: models.DestinationKitchen}},
	}}
	gw := &fakeGateway{}

	results, err := dispatchFixture(gw, store).PrintOrder(context.Background(), 1, "all")
	require.NoError(t, err)
	require.Len(t, results, 3)

	kitchen := resultFor(t, results, models.DestinationKitchen)
	assert.True(t, kitchen.Success)

	bar := resultFor(t, results, models.DestinationBar)
	assert.False(t, bar.Success)
	assert.Equal(t, "no active printer configured", bar.Error)
	assert.Zero(t, bar.PrinterID)

	// The kitchen ticket still went out.
	assert.Equal(t, []int64{1}, gw.sends)
}

func TestPrintOrderPartialFailureDoesNotAbort(t *testing.T) {
	store := &fakePrinterStore{byType: map[string][]models.PrinterConfig{
		models.DestinationKitchen: {{ID: 1, Name: "Kitchen 1", PrinterType: models.DestinationKitchen}},
		models.DestinationBar:     {{ID: 2, Name: "Bar 1", PrinterType: models.DestinationBar}},
		models.DestinationReceipt: {{ID: 3, Name: "Front desk", PrinterType: models.DestinationReceipt}},
	}}
	gw := &fakeGateway{failFor: map[int64]error{2: errors.New("connection refused")}}

	results, err := dispatchFixture(gw, store).PrintOrder(context.Background(), 1, "all")
	require.NoError(t, err)
	require.Len(t, results, 3)

	bar := resultFor(t, results, models.DestinationBar)
	assert.False(t, bar.Success)
	assert.Contains(t, bar.Error, "connection refused")

	assert.True(t, resultFor(t, results, models.DestinationKitchen).Success)
	assert.True(t, resultFor(t, results, models.DestinationReceipt).Success)
}

func TestPrintOrderOneResultPerPrinterPair(t *testing.T) {
	// Two kitchen printers: the kitchen ticket goes to both.
	store := &fakePrinterStore{byType: map[string][]models.PrinterConfig{
		models.DestinationKitchen: {
			{ID: 1, Name: "Kitchen 1", PrinterType: models.DestinationKitchen},
			{ID: 4, Name: "Kitchen 2", PrinterType: models.DestinationKitchen},
		},
	}}
	gw := &fakeGateway{}

	results, err := dispatchFixture(gw, store).PrintOrder(context.Background(), 1, models.DestinationKitchen)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.ElementsMatch(t, []int64{1, 4}, gw.sends)
}

func TestPrintOrderFiltersByRequestedDestination(t *testing.T) {
	store := &fakePrinterStore{byType: map[string][]models.PrinterConfig{
		models.DestinationKitchen: {{ID: 1, Name: "Kitchen 1", PrinterType: models.DestinationKitchen}},
		models.DestinationBar:     {{ID: 2, Name: "Bar 1", PrinterType: models.DestinationBar}},
	}}
	gw := &fakeGateway{}

	results, err := dispatchFixture(gw, store).PrintOrder(context.Background(), 1, models.DestinationBar)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.DestinationBar, results[0].Destination)
	assert.Equal(t, []int64{2}, gw.sends)
}

func TestPrintOrderPropagatesLoadError(t *testing.T) {
	loader := &fakeOrderLoader{err: errors.New("order not found")}
	d := NewDispatcher(loader, &fakePrinterStore{}, &fakeGateway{}, NewFormatter(""))

	_, err := d.PrintOrder(context.Background(), 99, "all")
	assert.Error(t, err)
}

func TestTestPrinter(t *testing.T) {
	store := &fakePrinterStore{byType: map[string][]models.PrinterConfig{
		models.DestinationBar: {{ID: 2, Name: "Bar 1", PrinterType: models.DestinationBar}},
	}}
	gw := &fakeGateway{}
	d := dispatchFixture(gw, store)

	result, err := d.TestPrinter(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Bar 1", result.PrinterName)

	_, err = d.TestPrinter(context.Background(), 99)
	assert.ErrorIs(t, err, ErrPrinterNotFound)
}

func TestTestPrinterReportsSendFailure(t *testing.T) {
	store := &fakePrinterStore{byType: map[string][]models.PrinterConfig{
		models.DestinationBar: {{ID: 2, Name: "Bar 1", PrinterType: models.DestinationBar}},
	}}
	gw := &fakeGateway{failFor: map[int64]error{2: errors.New("timeout")}}

	result, err := dispatchFixture(gw, store).TestPrinter(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "timeout")
}
