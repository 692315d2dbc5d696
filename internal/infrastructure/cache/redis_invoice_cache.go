package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	appbilling "github.com/pathassist/lab-billing/internal/application/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/pkg/config"
	"github.com/pathassist/lab-billing/pkg/logger"
)

const (
	invoiceKeyPrefix = "invoice:"
	defaultCacheTTL  = 10 * time.Minute
)

var _ appbilling.InvoiceCache = (*RedisInvoiceCache)(nil)

// RedisInvoiceCache implementa billing.InvoiceCache sobre Redis.
type RedisInvoiceCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisInvoiceCache crea el cliente Redis a partir de la configuración.
func NewRedisInvoiceCache(cfg config.RedisConfig, log *logger.Logger) *RedisInvoiceCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisInvoiceCacheWithClient(client, cfg.TTL, log)
}

// NewRedisInvoiceCacheWithClient usa un cliente existente (cluster, tests).
func NewRedisInvoiceCacheWithClient(client redis.Cmdable, ttl time.Duration, log *logger.Logger) *RedisInvoiceCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisInvoiceCache{client: client, ttl: ttl, log: log}
}

// Ping verifica la conexión al arrancar.
func (c *RedisInvoiceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get devuelve (nil, nil) en un fallo de caché.
func (c *RedisInvoiceCache) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	data, err := c.client.Get(ctx, invoiceKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug().Str("invoice_id", id).Msg("cache miss")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	inv, err := decodeInvoice(data)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("invoice_id", id).Msg("cache hit")
	return inv, nil
}

// Set guarda la factura con el TTL configurado.
func (c *RedisInvoiceCache) Set(ctx context.Context, inv *entity.Invoice) error {
	data, err := encodeInvoice(inv)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, invoiceKeyPrefix+inv.ID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete invalida la entrada de la factura.
func (c *RedisInvoiceCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, invoiceKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// cachedInvoice forma serializada; los importes viajan como texto decimal exacto.
type cachedInvoice struct {
	ID            string          `json:"id"`
	PatientID     string          `json:"patient_id"`
	PatientName   string          `json:"patient_name,omitempty"`
	AppointmentID string          `json:"appointment_id,omitempty"`
	InvoiceNumber string          `json:"invoice_number"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Items         []cachedItem    `json:"items"`
	Amount        decimal.Decimal `json:"amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type cachedItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

func encodeInvoice(inv *entity.Invoice) ([]byte, error) {
	rec := cachedInvoice{
		ID: inv.ID, PatientID: inv.PatientID, PatientName: inv.PatientName, AppointmentID: inv.AppointmentID,
		InvoiceNumber: inv.InvoiceNumber, IssueDate: inv.IssueDate, DueDate: inv.DueDate,
		Items:  make([]cachedItem, 0, len(inv.Items)),
		Amount: inv.Amount, TaxAmount: inv.TaxAmount, Currency: inv.Currency, Status: string(inv.Status),
		CreatedAt: inv.CreatedAt, UpdatedAt: inv.UpdatedAt,
	}
	for _, it := range inv.Items {
		rec.Items = append(rec.Items, cachedItem(it))
	}
	return json.Marshal(rec)
}

func decodeInvoice(data []byte) (*entity.Invoice, error) {
	var rec cachedInvoice
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	inv := &entity.Invoice{
		ID: rec.ID, PatientID: rec.PatientID, PatientName: rec.PatientName, AppointmentID: rec.AppointmentID,
		InvoiceNumber: rec.InvoiceNumber, IssueDate: rec.IssueDate, DueDate: rec.DueDate,
		Items:  make([]entity.InvoiceItem, 0, len(rec.Items)),
		Amount: rec.Amount, TaxAmount: rec.TaxAmount, Currency: rec.Currency, Status: entity.PaymentStatus(rec.Status),
		CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt,
	}
	for _, it := range rec.Items {
		inv.Items = append(inv.Items, entity.InvoiceItem(it))
	}
	return inv, nil
}
