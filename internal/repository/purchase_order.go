package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/constants"
	entschema "github.com/joseph-ayodele/po-tracker/db/ent/schema"
	"github.com/joseph-ayodele/po-tracker/db/ent/schema/utils"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/entity"
)

var (
	validPOStatus      = utils.EnumValidator(constants.POStatuses...)
	validPaymentStatus = utils.EnumValidator(constants.PaymentStatuses...)
)

// ListFilter narrows List. Zero values mean no bound.
type ListFilter struct {
	Customer string
	From     time.Time
	To       time.Time // exclusive
	Limit    int
}

type PurchaseOrderRepository interface {
	Register(ctx context.Context, po *entity.PurchaseOrder) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error)
	List(ctx context.Context, f ListFilter) ([]*entity.PurchaseOrder, error)
}

type purchaseOrderRepo struct {
	db  *DB
	log *slog.Logger
}

func NewPurchaseOrderRepository(db *DB, log *slog.Logger) PurchaseOrderRepository {
	if log == nil {
		log = slog.Default()
	}
	return &purchaseOrderRepo{db: db, log: log}
}

// Register writes the PO, its items and its input row in one transaction.
// IDs left nil are generated; the PO's ID is returned.
func (r *purchaseOrderRepo) Register(ctx context.Context, po *entity.PurchaseOrder) (uuid.UUID, error) {
	if po == nil || po.Input == nil {
		return uuid.Nil, fmt.Errorf("%w: purchase order and input are required", common.ErrInvalidInput)
	}
	if err := validPOStatus(po.Status); err != nil {
		return uuid.Nil, fmt.Errorf("%w: status: %v", common.ErrInvalidInput, err)
	}
	if err := validPaymentStatus(po.Input.PaymentStatus); err != nil {
		return uuid.Nil, fmt.Errorf("%w: payment status: %v", common.ErrInvalidInput, err)
	}
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	if po.CreatedAt.IsZero() {
		po.CreatedAt = time.Now().UTC()
	}
	b := r.db.builder()

	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		var source any
		if po.SourceOCRID != nil {
			source = *po.SourceOCRID
		}
		q, args := b.Insert(entschema.TablePurchaseOrder).
			Columns("id", "customer_name", "po_number", "currency", "total_amount",
				"payment_terms", "shipping_terms", "destination", "status", "source_ocr_id", "created_at").
			Values(po.ID, po.CustomerName, po.PONumber, po.Currency, po.TotalAmount,
				nullable(po.PaymentTerms), nullable(po.ShippingTerms), nullable(po.Destination),
				po.Status, source, po.CreatedAt).
			Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert purchase_order: %w", err)
		}

		for i := range po.Items {
			it := &po.Items[i]
			if it.ID == uuid.Nil {
				it.ID = uuid.New()
			}
			it.POID = po.ID
			q, args := b.Insert(entschema.TableOrderItem).
				Columns("id", "po_id", "line_no", "product_name", "quantity", "unit_price", "subtotal").
				Values(it.ID, it.POID, i, it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal).
				Query()
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("insert order_item %d: %w", i, err)
			}
		}

		in := po.Input
		if in.ID == uuid.Nil {
			in.ID = uuid.New()
		}
		in.POID = po.ID
		q, args = b.Insert(entschema.TablePOInput).
			Columns("id", "po_id", "shipment_arrangement", "po_acquisition_date", "organization",
				"invoice_number", "payment_status", "booking_number", "memo").
			Values(in.ID, in.POID, in.ShipmentArrangement, in.POAcquisitionDate, nullable(in.Organization),
				nullable(in.InvoiceNumber), in.PaymentStatus, nullable(in.BookingNumber), nullable(in.Memo)).
			Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert po_input: %w", err)
		}
		return nil
	})
	if err != nil {
		r.log.Error("purchase_order register failed", "po_number", po.PONumber, "error", err)
		return uuid.Nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	r.log.Info("purchase_order registered", "po_id", po.ID, "po_number", po.PONumber, "items", len(po.Items))
	return po.ID, nil
}

var poColumns = []string{
	"id", "customer_name", "po_number", "currency", "total_amount",
	"payment_terms", "shipping_terms", "destination", "status", "source_ocr_id", "created_at",
}

func (r *purchaseOrderRepo) Get(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	pos, err := r.query(ctx, entsql.EQ("id", id), 0)
	if err != nil {
		return nil, err
	}
	if len(pos) == 0 {
		return nil, fmt.Errorf("purchase_order %s: %w", id, common.ErrNotFound)
	}
	return pos[0], nil
}

// List returns POs newest first, each with items and input loaded.
func (r *purchaseOrderRepo) List(ctx context.Context, f ListFilter) ([]*entity.PurchaseOrder, error) {
	var preds []*entsql.Predicate
	if f.Customer != "" {
		preds = append(preds, entsql.ContainsFold("customer_name", f.Customer))
	}
	if !f.From.IsZero() {
		preds = append(preds, entsql.GTE("created_at", f.From.UTC()))
	}
	if !f.To.IsZero() {
		preds = append(preds, entsql.LT("created_at", f.To.UTC()))
	}
	var where *entsql.Predicate
	if len(preds) > 0 {
		where = entsql.And(preds...)
	}
	return r.query(ctx, where, f.Limit)
}

func (r *purchaseOrderRepo) query(ctx context.Context, where *entsql.Predicate, limit int) ([]*entity.PurchaseOrder, error) {
	b := r.db.builder()
	sel := b.Select(poColumns...).From(b.Table(entschema.TablePurchaseOrder))
	if where != nil {
		sel = sel.Where(where)
	}
	sel = sel.OrderBy(entsql.Desc("created_at"), "po_number")
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	q, args := sel.Query()

	rows, err := r.db.SQL.QueryContext(ctx, q, args...)
	if err != nil {
		r.log.Error("purchase_order query failed", "error", err)
		return nil, fmt.Errorf("%w: query purchase_order: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var (
		out  []*entity.PurchaseOrder
		byID = map[uuid.UUID]*entity.PurchaseOrder{}
		ids  []any
	)
	for rows.Next() {
		var (
			po                  entity.PurchaseOrder
			payment, ship, dest sql.NullString
			source              uuid.NullUUID
		)
		if err := rows.Scan(&po.ID, &po.CustomerName, &po.PONumber, &po.Currency, &po.TotalAmount,
			&payment, &ship, &dest, &po.Status, &source, &po.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan purchase_order: %v", common.ErrDatabase, err)
		}
		po.PaymentTerms, po.ShippingTerms, po.Destination = payment.String, ship.String, dest.String
		if source.Valid {
			id := source.UUID
			po.SourceOCRID = &id
		}
		po.Items = []entity.OrderItem{}
		out = append(out, &po)
		byID[po.ID] = &po
		ids = append(ids, po.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := r.loadItems(ctx, byID, ids); err != nil {
		return nil, err
	}
	if err := r.loadInputs(ctx, byID, ids); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *purchaseOrderRepo) loadItems(ctx context.Context, byID map[uuid.UUID]*entity.PurchaseOrder, ids []any) error {
	b := r.db.builder()
	q, args := b.Select("id", "po_id", "product_name", "quantity", "unit_price", "subtotal").
		From(b.Table(entschema.TableOrderItem)).
		Where(entsql.In("po_id", ids...)).
		OrderBy("po_id", "line_no").
		Query()
	rows, err := r.db.SQL.QueryContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("%w: query order_item: %v", common.ErrDatabase, err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.POID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return fmt.Errorf("%w: scan order_item: %v", common.ErrDatabase, err)
		}
		if po, ok := byID[it.POID]; ok {
			po.Items = append(po.Items, it)
		}
	}
	return rows.Err()
}

func (r *purchaseOrderRepo) loadInputs(ctx context.Context, byID map[uuid.UUID]*entity.PurchaseOrder, ids []any) error {
	b := r.db.builder()
	q, args := b.Select("id", "po_id", "shipment_arrangement", "po_acquisition_date", "organization",
		"invoice_number", "payment_status", "booking_number", "memo").
		From(b.Table(entschema.TablePOInput)).
		Where(entsql.In("po_id", ids...)).
		Query()
	rows, err := r.db.SQL.QueryContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("%w: query po_input: %v", common.ErrDatabase, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			in                          entity.POInput
			org, invoice, booking, memo sql.NullString
		)
		if err := rows.Scan(&in.ID, &in.POID, &in.ShipmentArrangement, &in.POAcquisitionDate, &org,
			&invoice, &in.PaymentStatus, &booking, &memo); err != nil {
			return fmt.Errorf("%w: scan po_input: %v", common.ErrDatabase, err)
		}
		in.Organization, in.InvoiceNumber, in.BookingNumber, in.Memo = org.String, invoice.String, booking.String, memo.String
		if po, ok := byID[in.POID]; ok {
			po.Input = &in
		}
	}
	return rows.Err()
}

// nullable stores empty optional strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
