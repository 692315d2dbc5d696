package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pathassist/lab-billing/internal/application/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/internal/infrastructure/memory"
)

type fakeCache struct {
	mu      sync.Mutex
	data    map[string]*entity.Invoice
	gets    int
	deletes []string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]*entity.Invoice{}} }

func (c *fakeCache) Get(_ context.Context, id string) (*entity.Invoice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	inv, ok := c.data[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (c *fakeCache) Set(_ context.Context, inv *entity.Invoice) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *inv
	c.data[inv.ID] = &cp
	return nil
}

func (c *fakeCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, id)
	c.deletes = append(c.deletes, id)
	return nil
}

type fakeEvents struct {
	created []string
	updated []string
	err     error
}

func (e *fakeEvents) PublishInvoiceCreated(_ context.Context, inv *entity.Invoice) error {
	e.created = append(e.created, inv.ID)
	return e.err
}

func (e *fakeEvents) PublishInvoiceUpdated(_ context.Context, inv *entity.Invoice) error {
	e.updated = append(e.updated, inv.ID)
	return e.err
}

type fakeMetrics struct {
	saved     map[string]int
	rejected  map[string]int
	pdfs      int
	lastTotal decimal.Decimal
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{saved: map[string]int{}, rejected: map[string]int{}}
}

func (m *fakeMetrics) InvoiceSaved(op string, total decimal.Decimal) {
	m.saved[op]++
	m.lastTotal = total
}
func (m *fakeMetrics) ValidationRejected(reason string) { m.rejected[reason]++ }
func (m *fakeMetrics) PDFRendered()                     { m.pdfs++ }

type fakePDF struct {
	doc billing.InvoiceDocument
	err error
}

func (g *fakePDF) GenerateInvoicePDF(_ context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	g.doc = doc
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.3"), nil
}

type fakeExporter struct {
	docs []billing.InvoiceDocument
}

func (x *fakeExporter) ExportInvoices(_ context.Context, docs []billing.InvoiceDocument) ([]byte, error) {
	x.docs = docs
	return []byte("PK"), nil
}

var errBroker = errors.New("broker caído")

// fixture casos de uso sobre el almacén en memoria sembrado, sin latencia.
type fixture struct {
	store    *memory.Store
	invoices *billing.InvoiceUseCase
	drafts   *billing.DraftUseCase
	cache    *fakeCache
	events   *fakeEvents
	metrics  *fakeMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewSeededStore(memory.Latency{})
	f := &fixture{
		store:   store,
		cache:   newFakeCache(),
		events:  &fakeEvents{},
		metrics: newFakeMetrics(),
	}
	f.invoices = billing.NewInvoiceUseCase(
		memory.NewInvoiceRepository(store),
		memory.NewPatientRepository(store),
		f.cache, f.events, f.metrics, nil,
		billing.Settings{},
	)
	f.drafts = billing.NewDraftUseCase(f.invoices, nil, 0)
	return f
}
