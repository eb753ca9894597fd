package repository

import (
	"context"
	"fmt"
	"log/slog"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/joseph-ayodele/po-tracker/db/ent/schema"
)

const textSize = 2147483647

var (
	// OCRResultColumns holds the columns for the "ocr_result" table.
	OCRResultColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "original_filename", Type: field.TypeString},
		{Name: "status", Type: field.TypeString},
		{Name: "text_content", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "processed_data", Type: field.TypeJSON, Nullable: true},
		{Name: "error_message", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	OCRResultTable = &schema.Table{
		Name:       entschema.TableOCRResult,
		Columns:    OCRResultColumns,
		PrimaryKey: []*schema.Column{OCRResultColumns[0]},
		Indexes: []*schema.Index{
			{Name: "ocrresult_status_created_at", Columns: []*schema.Column{OCRResultColumns[2], OCRResultColumns[6]}},
		},
	}

	// PurchaseOrderColumns holds the columns for the "purchase_order" table.
	PurchaseOrderColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "customer_name", Type: field.TypeString},
		{Name: "po_number", Type: field.TypeString},
		{Name: "currency", Type: field.TypeString, Size: 3, SchemaType: map[string]string{dialect.Postgres: "char(3)"}},
		{Name: "total_amount", Type: field.TypeFloat64, SchemaType: map[string]string{dialect.Postgres: "numeric(14,2)"}},
		{Name: "payment_terms", Type: field.TypeString, Nullable: true},
		{Name: "shipping_terms", Type: field.TypeString, Nullable: true},
		{Name: "destination", Type: field.TypeString, Nullable: true},
		{Name: "status", Type: field.TypeString},
		{Name: "source_ocr_id", Type: field.TypeUUID, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	PurchaseOrderTable = &schema.Table{
		Name:       entschema.TablePurchaseOrder,
		Columns:    PurchaseOrderColumns,
		PrimaryKey: []*schema.Column{PurchaseOrderColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "purchase_order_ocr_result_purchase_orders",
				Columns:    []*schema.Column{PurchaseOrderColumns[9]},
				RefColumns: []*schema.Column{OCRResultColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "purchaseorder_customer_name_created_at", Columns: []*schema.Column{PurchaseOrderColumns[1], PurchaseOrderColumns[10]}},
			{Name: "purchaseorder_po_number", Columns: []*schema.Column{PurchaseOrderColumns[2]}},
		},
	}

	// OrderItemColumns holds the columns for the "order_item" table.
	OrderItemColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "po_id", Type: field.TypeUUID},
		{Name: "line_no", Type: field.TypeInt},
		{Name: "product_name", Type: field.TypeString},
		{Name: "quantity", Type: field.TypeFloat64, SchemaType: map[string]string{dialect.Postgres: "numeric(14,3)"}},
		{Name: "unit_price", Type: field.TypeFloat64, SchemaType: map[string]string{dialect.Postgres: "numeric(14,2)"}},
		{Name: "subtotal", Type: field.TypeFloat64, SchemaType: map[string]string{dialect.Postgres: "numeric(14,2)"}},
	}
	OrderItemTable = &schema.Table{
		Name:       entschema.TableOrderItem,
		Columns:    OrderItemColumns,
		PrimaryKey: []*schema.Column{OrderItemColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "order_item_purchase_order_items",
				Columns:    []*schema.Column{OrderItemColumns[1]},
				RefColumns: []*schema.Column{PurchaseOrderColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "orderitem_po_id_line_no", Unique: true, Columns: []*schema.Column{OrderItemColumns[1], OrderItemColumns[2]}},
		},
	}

	// POInputColumns holds the columns for the "po_input" table.
	POInputColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "po_id", Type: field.TypeUUID, Unique: true},
		{Name: "shipment_arrangement", Type: field.TypeString},
		{Name: "po_acquisition_date", Type: field.TypeTime, SchemaType: map[string]string{dialect.Postgres: "date"}},
		{Name: "organization", Type: field.TypeString, Nullable: true},
		{Name: "invoice_number", Type: field.TypeString, Nullable: true},
		{Name: "payment_status", Type: field.TypeString},
		{Name: "booking_number", Type: field.TypeString, Nullable: true},
		{Name: "memo", Type: field.TypeString, Nullable: true, Size: textSize},
	}
	POInputTable = &schema.Table{
		Name:       entschema.TablePOInput,
		Columns:    POInputColumns,
		PrimaryKey: []*schema.Column{POInputColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "po_input_purchase_order_input",
				Columns:    []*schema.Column{POInputColumns[1]},
				RefColumns: []*schema.Column{PurchaseOrderColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// Tables holds all the tables in the schema, parents first.
	Tables = []*schema.Table{
		OCRResultTable,
		PurchaseOrderTable,
		OrderItemTable,
		POInputTable,
	}
)

func init() {
	PurchaseOrderTable.ForeignKeys[0].RefTable = OCRResultTable
	OrderItemTable.ForeignKeys[0].RefTable = PurchaseOrderTable
	POInputTable.ForeignKeys[0].RefTable = PurchaseOrderTable
}

// Migrate creates missing tables, columns and indexes. It never drops.
func Migrate(ctx context.Context, d *DB, logger *slog.Logger) error {
	m, err := schema.NewMigrate(d.Driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		logger.Error("schema migration failed", "error", err)
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("schema migrated", "dialect", d.Dialect, "tables", len(Tables))
	return nil
}

// TableStatus reports whether a table exists and how many rows it holds.
type TableStatus struct {
	Table  string
	Exists bool
	Rows   int64
}

// MigrationStatus counts rows per table; a failing count marks the table missing.
func MigrationStatus(ctx context.Context, d *DB) []TableStatus {
	out := make([]TableStatus, 0, len(Tables))
	for _, t := range Tables {
		q, args := d.builder().Select("COUNT(*)").From(d.builder().Table(t.Name)).Query()
		st := TableStatus{Table: t.Name}
		if err := d.SQL.QueryRowContext(ctx, q, args...).Scan(&st.Rows); err == nil {
			st.Exists = true
		}
		out = append(out, st)
	}
	return out
}
