// Package purchaseorders registers purchase orders from operator-confirmed
// extraction output and exports them as workbooks.
package purchaseorders

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/entity"
	"github.com/joseph-ayodele/po-tracker/internal/export"
	"github.com/joseph-ayodele/po-tracker/internal/extraction"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
)

// Service owns PO registration, lookup and export.
type Service struct {
	repo   repository.PurchaseOrderRepository
	logger *slog.Logger
	schema *jsonschema.Schema
	now    func() time.Time
}

func NewService(repo repository.PurchaseOrderRepository, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := compileSchema(RegisterSchema())
	if err != nil {
		return nil, err
	}
	return &Service{repo: repo, logger: logger, schema: schema, now: time.Now}, nil
}

type registerPayload struct {
	Customer            string           `json:"customer"`
	PONumber            string           `json:"poNumber"`
	Currency            string           `json:"currency"`
	TotalAmount         string           `json:"totalAmount"`
	PaymentTerms        string           `json:"paymentTerms"`
	Terms               string           `json:"terms"`
	Destination         string           `json:"destination"`
	Products            []productPayload `json:"products"`
	ShipmentArrangement string           `json:"shipment_arrangement"`
	POAcquisitionDate   string           `json:"po_acquisition_date"`
	Organization        string           `json:"organization"`
	InvoiceNumber       string           `json:"invoice_number"`
	PaymentStatus       string           `json:"payment_status"`
	BookingNumber       string           `json:"booking_number"`
	Memo                string           `json:"memo"`
	OCRID               string           `json:"ocrId"`
}

type productPayload struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Amount    string `json:"amount"`
}

// Register validates a JSON payload and stores it as a new purchase order.
// Malformed JSON is ErrInvalidInput; a payload that fails the schema is ErrValidation.
func (s *Service) Register(ctx context.Context, payload []byte) (uuid.UUID, error) {
	log := common.LoggerFrom(ctx, s.logger)

	clean, _, err := Sanitize(payload, log)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	if err := validateAgainst(s.schema, clean); err != nil {
		log.Warn("po.register.invalid", "error", err)
		return uuid.Nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	var p registerPayload
	if err := json.Unmarshal(clean, &p); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	v := common.NewValidator().
		Field("customer", p.Customer, common.MaxLength(255)).
		Field("poNumber", p.PONumber, common.MaxLength(100)).
		Field("currency", p.Currency, common.CurrencyCode)
	if p.OCRID != "" {
		v.Field("ocrId", p.OCRID, common.UUID)
	}
	if err := v.Err(); err != nil {
		log.Warn("po.register.invalid", "error", err)
		return uuid.Nil, err
	}

	po := s.build(p, log)
	id, err := s.repo.Register(ctx, po)
	if err != nil {
		return uuid.Nil, err
	}
	log.Info("po.register.ok", "po_id", id, "po_number", po.PONumber, "items", len(po.Items))
	return id, nil
}

// RegisterRecord stores an extraction record as-is, through the same checks as Register.
func (s *Service) RegisterRecord(ctx context.Context, rec extraction.Record, sourceOCRID *uuid.UUID) (uuid.UUID, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode record: %w", err)
	}
	if sourceOCRID != nil {
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			return uuid.Nil, fmt.Errorf("encode record: %w", err)
		}
		m["ocrId"] = sourceOCRID.String()
		if b, err = json.Marshal(m); err != nil {
			return uuid.Nil, fmt.Errorf("encode record: %w", err)
		}
	}
	return s.Register(ctx, b)
}

func (s *Service) build(p registerPayload, log *slog.Logger) *entity.PurchaseOrder {
	po := &entity.PurchaseOrder{
		CustomerName:  p.Customer,
		PONumber:      p.PONumber,
		Currency:      p.Currency,
		TotalAmount:   ParseAmount(p.TotalAmount),
		PaymentTerms:  p.PaymentTerms,
		ShippingTerms: p.Terms,
		Destination:   p.Destination,
		Status:        constants.POStatusPending,
		Items:         make([]entity.OrderItem, 0, len(p.Products)),
	}
	if po.Currency == "" {
		po.Currency = constants.DefaultCurrency
	}
	if p.OCRID != "" {
		if id, err := uuid.Parse(p.OCRID); err == nil {
			po.SourceOCRID = &id
		}
	}
	for _, it := range p.Products {
		po.Items = append(po.Items, entity.OrderItem{
			ProductName: it.Name,
			Quantity:    ParseAmount(it.Quantity),
			UnitPrice:   ParseAmount(it.UnitPrice),
			Subtotal:    ParseAmount(it.Amount),
		})
	}

	in := &entity.POInput{
		ShipmentArrangement: p.ShipmentArrangement,
		POAcquisitionDate:   s.acquisitionDate(p.POAcquisitionDate, log),
		Organization:        p.Organization,
		InvoiceNumber:       p.InvoiceNumber,
		PaymentStatus:       p.PaymentStatus,
		BookingNumber:       p.BookingNumber,
		Memo:                p.Memo,
	}
	if in.ShipmentArrangement == "" {
		in.ShipmentArrangement = constants.ShipmentArrangementEmpty
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = constants.PaymentStatusUnpaid
	}
	po.Input = in
	return po
}

// acquisitionDate parses YYYY-MM-DD; blank or unreadable dates become today.
func (s *Service) acquisitionDate(raw string, log *slog.Logger) time.Time {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if raw == "" {
		return today
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		log.Warn("po.register.bad_date", "value", raw)
		return today
	}
	return d
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f repository.ListFilter) ([]*entity.PurchaseOrder, error) {
	return s.repo.List(ctx, f)
}

// Export writes every PO matching f as an XLSX workbook.
func (s *Service) Export(ctx context.Context, f repository.ListFilter, w io.Writer) (int, error) {
	log := common.LoggerFrom(ctx, s.logger)
	pos, err := s.repo.List(ctx, f)
	if err != nil {
		return 0, err
	}
	if err := export.WriteWorkbook(w, pos); err != nil {
		log.Error("po.export.failed", "error", err)
		return 0, fmt.Errorf("%w: export: %v", common.ErrInternal, err)
	}
	log.Info("po.export.ok", "rows", len(pos))
	return len(pos), nil
}
