package amqp

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Sale lifecycle events published by the sales subsystem.
const (
	EventSaleCreated = "created"
	EventSaleUpdated = "updated"
	EventSaleDeleted = "deleted"
)

// SaleEventMessage is one sale lifecycle notification.
type SaleEventMessage struct {
	Event     string      `json:"event" validate:"required,oneof=created updated deleted"`
	CompanyID string      `json:"companyId" validate:"required"`
	Sale      SalePayload `json:"sale"`
	Timestamp time.Time   `json:"timestamp"`
}

// SalePayload carries the sale fields the ledger mirror needs. Only the id is
// required for a deleted event.
type SalePayload struct {
	ID           string            `json:"id" validate:"required"`
	Date         time.Time         `json:"date"`
	Total        decimal.Decimal   `json:"total"`
	Status       domain.SaleStatus `json:"status"`
	CustomerName string            `json:"customerName"`
	AccountID    string            `json:"accountId"`
	CategoryID   string            `json:"categoryId"`
}

// NewSaleEventMessage builds a message for a sale.
func NewSaleEventMessage(event string, sale domain.Sale) *SaleEventMessage {
	return &SaleEventMessage{
		Event:     event,
		CompanyID: sale.CompanyID,
		Sale: SalePayload{
			ID:           sale.SaleID,
			Date:         sale.Date,
			Total:        sale.Total,
			Status:       sale.Status,
			CustomerName: sale.CustomerName,
			AccountID:    sale.AccountID,
			CategoryID:   sale.CategoryID,
		},
		Timestamp: time.Now(),
	}
}

// ToSale converts the payload into the domain sale.
func (m *SaleEventMessage) ToSale() domain.Sale {
	return domain.Sale{
		SaleID:       m.Sale.ID,
		CompanyID:    m.CompanyID,
		Date:         m.Sale.Date,
		Total:        m.Sale.Total,
		Status:       m.Sale.Status,
		CustomerName: m.Sale.CustomerName,
		AccountID:    m.Sale.AccountID,
		CategoryID:   m.Sale.CategoryID,
	}
}

// ToJSON converts the message to JSON bytes
func (m *SaleEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SaleEventMessageFromJSON creates a message from JSON bytes
func SaleEventMessageFromJSON(data []byte) (*SaleEventMessage, error) {
	var msg SaleEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
