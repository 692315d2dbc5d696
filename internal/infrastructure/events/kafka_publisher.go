package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	appbilling "github.com/pathassist/lab-billing/internal/application/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/pkg/config"
	"github.com/pathassist/lab-billing/pkg/logger"
)

// Tipos de evento publicados en el tópico de facturas.
const (
	EventInvoiceCreated = "invoice.created"
	EventInvoiceUpdated = "invoice.updated"
)

// InvoiceEvent sobre común de los eventos de facturación.
type InvoiceEvent struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	InvoiceID     string          `json:"invoice_id"`
	PatientID     string          `json:"patient_id"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// InvoicePayload datos del evento. Los importes van como texto con 2 decimales.
type InvoicePayload struct {
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
	Currency      string `json:"currency"`
	Amount        string `json:"amount"`
	TaxAmount     string `json:"tax_amount"`
	GrandTotal    string `json:"grand_total"`
	ItemCount     int    `json:"item_count"`
	IssueDate     string `json:"issue_date"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ appbilling.InvoiceEventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher publica eventos de facturas en Kafka.
type KafkaPublisher struct {
	writer messageWriter
	log    *logger.Logger
	now    func() time.Time
}

// NewKafkaPublisher crea el writer para los brokers y tópico configurados.
func NewKafkaPublisher(cfg config.KafkaConfig, log *logger.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return newPublisher(w, log)
}

func newPublisher(w messageWriter, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &KafkaPublisher{writer: w, log: log, now: time.Now}
}

// PublishInvoiceCreated publica invoice.created.
func (p *KafkaPublisher) PublishInvoiceCreated(ctx context.Context, inv *entity.Invoice) error {
	return p.publish(ctx, EventInvoiceCreated, inv)
}

// PublishInvoiceUpdated publica invoice.updated.
func (p *KafkaPublisher) PublishInvoiceUpdated(ctx context.Context, inv *entity.Invoice) error {
	return p.publish(ctx, EventInvoiceUpdated, inv)
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, inv *entity.Invoice) error {
	event, err := p.buildEvent(ctx, eventType, inv)
	if err != nil {
		return err
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(inv.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", eventType, err)
	}
	p.log.Debug().
		Str("event_type", eventType).
		Str("event_id", event.ID).
		Str("invoice_id", inv.ID).
		Msg("evento publicado")
	return nil
}

func (p *KafkaPublisher) buildEvent(ctx context.Context, eventType string, inv *entity.Invoice) (InvoiceEvent, error) {
	payload := InvoicePayload{
		InvoiceNumber: inv.InvoiceNumber,
		Status:        string(inv.Status),
		Currency:      inv.Currency,
		Amount:        inv.Amount.StringFixed(2),
		TaxAmount:     inv.TaxAmount.StringFixed(2),
		GrandTotal:    inv.GrandTotal().StringFixed(2),
		ItemCount:     len(inv.Items),
		IssueDate:     inv.IssueDate.Format("2006-01-02"),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return InvoiceEvent{}, fmt.Errorf("marshal payload: %w", err)
	}
	return InvoiceEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		InvoiceID:     inv.ID,
		PatientID:     inv.PatientID,
		Data:          data,
		Timestamp:     p.now().UTC(),
		CorrelationID: CorrelationID(ctx),
	}, nil
}

// Close libera el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
