package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/po-tracker/internal/entity"
)

const (
	SheetOrders = "Purchase Orders"
	SheetItems  = "Items"
)

var (
	orderHeaders = []string{
		"PO ID", "Customer", "PO Number", "Currency", "Total Amount",
		"Payment Terms", "Shipping Terms", "Destination", "Status",
		"Shipment Arrangement", "PO Acquisition Date", "Organization",
		"Invoice Number", "Payment Status", "Booking Number", "Memo", "Created At",
	}
	itemHeaders = []string{"PO ID", "PO Number", "Line", "Product", "Quantity", "Unit Price", "Amount"}
)

// WriteWorkbook writes one row per PO on the orders sheet and one row per
// item on the items sheet.
func WriteWorkbook(w io.Writer, pos []*entity.PurchaseOrder) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetOrders); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetItems); err != nil {
		return err
	}
	if idx, err := f.GetSheetIndex(SheetOrders); err == nil {
		f.SetActiveSheet(idx)
	}

	writeRow(f, SheetOrders, 1, toAny(orderHeaders))
	writeRow(f, SheetItems, 1, toAny(itemHeaders))

	orderRow, itemRow := 2, 2
	for _, po := range pos {
		in := po.Input
		if in == nil {
			in = &entity.POInput{}
		}
		acquired := ""
		if !in.POAcquisitionDate.IsZero() {
			acquired = in.POAcquisitionDate.Format("2006-01-02")
		}
		writeRow(f, SheetOrders, orderRow, []any{
			po.ID.String(), po.CustomerName, po.PONumber, po.Currency, num(po.TotalAmount),
			po.PaymentTerms, po.ShippingTerms, po.Destination, po.Status,
			in.ShipmentArrangement, acquired, in.Organization,
			in.InvoiceNumber, in.PaymentStatus, in.BookingNumber, truncate(in.Memo, 140),
			po.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
		orderRow++

		for i, it := range po.Items {
			writeRow(f, SheetItems, itemRow, []any{
				po.ID.String(), po.PONumber, i + 1, it.ProductName,
				num(it.Quantity), num(it.UnitPrice), num(it.Subtotal),
			})
			itemRow++
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetOrders, "A", "A", 38) // id
	_ = f.SetColWidth(SheetOrders, "B", "B", 28) // customer
	_ = f.SetColWidth(SheetOrders, "C", "C", 18)
	_ = f.SetColWidth(SheetOrders, "P", "P", 48) // memo
	_ = f.SetColWidth(SheetItems, "A", "A", 38)
	_ = f.SetColWidth(SheetItems, "D", "D", 32) // product

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
