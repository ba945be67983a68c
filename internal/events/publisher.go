// Package events publishes catalog change notifications over NATS. The
// publisher is optional; a nil *Publisher is safe to call and drops events,
// so handlers never need to branch on whether NATS is configured.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Subjects for catalog events
const (
	SubjectProductCreated   = "catalog.product.created"
	SubjectProductUpdated   = "catalog.product.updated"
	SubjectProductDeleted   = "catalog.product.deleted"
	SubjectProductsImported = "catalog.products.imported"
	SubjectContactMessage   = "catalog.contact.message"
)

// Publisher sends catalog events to NATS
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS at the given URL
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("catalog-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "catalog-events"),
	}, nil
}

// Close drains the NATS connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Drain()
}

// ProductEvent is the payload for product change events
type ProductEvent struct {
	EventID     string    `json:"eventId"`
	EventType   string    `json:"eventType"`
	ProductID   uint      `json:"productId"`
	ProductName string    `json:"productName"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// ImportEvent is the payload emitted after a bulk import run
type ImportEvent struct {
	EventID    string    `json:"eventId"`
	Filename   string    `json:"filename"`
	Total      int       `json:"total"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ContactMessageEvent is emitted when a contact form submission arrives
type ContactMessageEvent struct {
	EventID    string    `json:"eventId"`
	MessageID  uint      `json:"messageId"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// PublishProductCreated publishes a product.created event
func (p *Publisher) PublishProductCreated(product *models.Product) {
	p.publishProduct(SubjectProductCreated, product)
}

// PublishProductUpdated publishes a product.updated event
func (p *Publisher) PublishProductUpdated(product *models.Product) {
	p.publishProduct(SubjectProductUpdated, product)
}

// PublishProductDeleted publishes a product.deleted event
func (p *Publisher) PublishProductDeleted(product *models.Product) {
	p.publishProduct(SubjectProductDeleted, product)
}

// PublishProductsImported publishes the summary of a bulk import run
func (p *Publisher) PublishProductsImported(filename string, total, successful, failed int) {
	if p == nil || p.conn == nil {
		return
	}
	p.publish(SubjectProductsImported, ImportEvent{
		EventID:    uuid.New().String(),
		Filename:   filename,
		Total:      total,
		Successful: successful,
		Failed:     failed,
		OccurredAt: time.Now(),
	})
}

// PublishContactMessage publishes a contact form submission notification
func (p *Publisher) PublishContactMessage(msg *models.ContactMessage) {
	if p == nil || p.conn == nil || msg == nil {
		return
	}
	subject := ""
	if msg.Subject != nil {
		subject = *msg.Subject
	}
	p.publish(SubjectContactMessage, ContactMessageEvent{
		EventID:    uuid.New().String(),
		MessageID:  msg.ID,
		Email:      msg.Email,
		Subject:    subject,
		OccurredAt: time.Now(),
	})
}

func (p *Publisher) publishProduct(subjectName string, product *models.Product) {
	if p == nil || p.conn == nil || product == nil {
		return
	}
	p.publish(subjectName, ProductEvent{
		EventID:     uuid.New().String(),
		EventType:   subjectName,
		ProductID:   product.ID,
		ProductName: product.Name,
		Slug:        product.Slug,
		Category:    product.Category,
		Status:      string(product.Status),
		OccurredAt:  time.Now(),
	})
}

// publish marshals and sends asynchronously so request flows never block on
// the broker.
func (p *Publisher) publish(subjectName string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.WithError(err).WithField("subject", subjectName).Error("Failed to marshal event")
		return
	}
	go func() {
		if err := p.conn.Publish(subjectName, data); err != nil {
			p.logger.WithError(err).WithField("subject", subjectName).Error("Failed to publish event")
		}
	}()
}
