package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder represents a registered PO with its line items and bookkeeping input.
type PurchaseOrder struct {
	ID            uuid.UUID       `json:"poId"`
	CustomerName  string          `json:"customer"`
	PONumber      string          `json:"poNumber"`
	Currency      string          `json:"currency"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentTerms  string          `json:"paymentTerms,omitempty"`
	ShippingTerms string          `json:"terms,omitempty"`
	Destination   string          `json:"destination,omitempty"`
	Status        string          `json:"status"`
	SourceOCRID   *uuid.UUID      `json:"sourceOcrId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	Items         []OrderItem     `json:"products"`
	Input         *POInput        `json:"input,omitempty"`
}

type OrderItem struct {
	ID          uuid.UUID       `json:"id"`
	POID        uuid.UUID       `json:"-"`
	ProductName string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"amount"`
}

// POInput holds the operator-entered fields tracked alongside a PO.
type POInput struct {
	ID                  uuid.UUID `json:"id"`
	POID                uuid.UUID `json:"-"`
	ShipmentArrangement string    `json:"shipmentArrangement"`
	POAcquisitionDate   time.Time `json:"poAcquisitionDate"`
	Organization        string    `json:"organization,omitempty"`
	InvoiceNumber       string    `json:"invoiceNumber,omitempty"`
	PaymentStatus       string    `json:"paymentStatus"`
	BookingNumber       string    `json:"bookingNumber,omitempty"`
	Memo                string    `json:"memo,omitempty"`
}
