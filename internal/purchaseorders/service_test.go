package purchaseorders

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/export"
	"github.com/joseph-ayodele/po-tracker/internal/extraction"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
)

func newTestService(t *testing.T) (*Service, *repository.DB) {
	t.Helper()
	ctx := context.Background()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.OpenSQLite(ctx, "file:"+name+"?mode=memory&cache=shared", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(slog.Default()) })
	require.NoError(t, repository.Migrate(ctx, db, slog.Default()))

	svc, err := NewService(repository.NewPurchaseOrderRepository(db, nil), nil)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC) }
	return svc, db
}

const fullPayload = `{
	"customer": "  Northwind Traders LLC ",
	"poNumber": "PO-88231",
	"currency": "usd",
	"totalAmount": "$1,140.00",
	"paymentTerms": "Net 45",
	"terms": "FOB",
	"destination": "Oakland",
	"products": [
		{"name": "Matcha Latte Mix", "quantity": "120 pcs", "unitPrice": "$4.50", "amount": "$540.00"},
		{"name": "Sencha Tea Bags", "quantity": 300, "unitPrice": 2, "amount": "600", "sku": "ST-1"}
	],
	"po_acquisition_date": "2024-03-14",
	"invoice_number": "INV-9",
	"memo": "rush",
	"unexpected": true
}`

func TestRegisterFullPayload(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, []byte(fullPayload))
	require.NoError(t, err)

	po, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Northwind Traders LLC", po.CustomerName)
	assert.Equal(t, "USD", po.Currency)
	assert.True(t, decimal.RequireFromString("1140").Equal(po.TotalAmount), po.TotalAmount.String())
	assert.Equal(t, "FOB", po.ShippingTerms)
	assert.Equal(t, constants.POStatusPending, po.Status)

	require.Len(t, po.Items, 2)
	assert.Equal(t, "Matcha Latte Mix", po.Items[0].ProductName)
	assert.True(t, decimal.NewFromInt(120).Equal(po.Items[0].Quantity))
	assert.True(t, decimal.RequireFromString("4.5").Equal(po.Items[0].UnitPrice))
	assert.True(t, decimal.NewFromInt(300).Equal(po.Items[1].Quantity))
	assert.True(t, decimal.NewFromInt(600).Equal(po.Items[1].Subtotal))

	require.NotNil(t, po.Input)
	assert.Equal(t, "2024-03-14", po.Input.POAcquisitionDate.Format(time.DateOnly))
	assert.Equal(t, constants.PaymentStatusUnpaid, po.Input.PaymentStatus)
	assert.Equal(t, constants.ShipmentArrangementEmpty, po.Input.ShipmentArrangement)
	assert.Equal(t, "INV-9", po.Input.InvoiceNumber)
}

func TestRegisterDefaults(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, []byte(`{
		"customer": "Acme", "poNumber": "1",
		"products": [{"name": "Widget", "quantity": "", "unitPrice": "n/a", "amount": null}],
		"po_acquisition_date": "14/03/2024"
	}`))
	require.NoError(t, err)

	po, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultCurrency, po.Currency)
	assert.True(t, po.TotalAmount.IsZero())
	assert.True(t, po.Items[0].Quantity.IsZero())
	assert.True(t, po.Items[0].UnitPrice.IsZero())
	assert.True(t, po.Items[0].Subtotal.IsZero())
	assert.Equal(t, "2024-05-01", po.Input.POAcquisitionDate.Format(time.DateOnly))
}

func TestRegisterRejects(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{"not json", `{"customer":`, common.ErrInvalidInput},
		{"not an object", `[1,2]`, common.ErrInvalidInput},
		{"missing customer", `{"poNumber":"1","products":[{"name":"a","quantity":"1","unitPrice":"1","amount":"1"}]}`, common.ErrValidation},
		{"blank po number", `{"customer":"A","poNumber":"  ","products":[{"name":"a","quantity":"1","unitPrice":"1","amount":"1"}]}`, common.ErrValidation},
		{"no products", `{"customer":"A","poNumber":"1","products":[]}`, common.ErrValidation},
		{"product missing amount", `{"customer":"A","poNumber":"1","products":[{"name":"a","quantity":"1","unitPrice":"1"}]}`, common.ErrValidation},
		{"bad payment status", `{"customer":"A","poNumber":"1","payment_status":"maybe","products":[{"name":"a","quantity":"1","unitPrice":"1","amount":"1"}]}`, common.ErrValidation},
		{"bad currency", `{"customer":"A","poNumber":"1","currency":"dollars","products":[{"name":"a","quantity":"1","unitPrice":"1","amount":"1"}]}`, common.ErrValidation},
		{"customer too long", `{"customer":"` + strings.Repeat("x", 256) + `","poNumber":"1","products":[{"name":"a","quantity":"1","unitPrice":"1","amount":"1"}]}`, common.ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), []byte(tc.payload))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegisterRecordLinksSource(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	ocr, err := repository.NewOCRResultRepository(db, nil).Create(ctx, "po.pdf")
	require.NoError(t, err)

	rec := extraction.Record{
		Customer:    "Pacific Foods Inc.",
		PONumber:    "BP-2024-0117",
		TotalAmount: "7,850.00",
		Products:    []extraction.LineItem{{Name: "Green Tea Powder", Quantity: "500 kg", UnitPrice: "$12.50", Amount: "$6,250.00"}},
		Currency:    "USD",
	}
	id, err := svc.RegisterRecord(ctx, rec, &ocr.ID)
	require.NoError(t, err)

	po, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, po.SourceOCRID)
	assert.Equal(t, ocr.ID, *po.SourceOCRID)
	assert.True(t, decimal.NewFromInt(7850).Equal(po.TotalAmount))

	_, err = svc.RegisterRecord(ctx, extraction.Record{Products: []extraction.LineItem{{Name: extraction.SentinelProductName}}}, nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestExport(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, []byte(fullPayload))
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := svc.Export(ctx, repository.ListFilter{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	items, err := f.GetRows(export.SheetItems)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestSanitize(t *testing.T) {
	t.Parallel()
	out, dropped, err := Sanitize([]byte(`{"customer":" A ","memo":"  ","extra":1,"totalAmount":12.5,"products":[{"name":"x","quantity":2,"color":"red","amount":null}]}`), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"customer":"A","totalAmount":"12.5","products":[{"name":"x","quantity":"2","amount":""}]}`, string(out))
	assert.ElementsMatch(t, []string{"memo(empty)", "extra(unknown)", "products[0].color(unknown)"}, dropped)
}

func TestParseAmount(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"$6,250.00":     "6250",
		"120 pcs":       "120",
		"USD 7,850":     "7850",
		"15.5":          "15.5",
		"-12.50":        "-12.5",
		"":              "0",
		"n/a":           "0",
		"1.2.3":         "0",
		"¥1,000":        "1000",
		"4,500.00 /MT.": "4500",
	}
	for in, want := range tests {
		got := ParseAmount(in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "%q -> %s", in, got)
	}
}

func TestRegisterUnknownOCRIDFails(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	missing := uuid.New()
	_, err := svc.RegisterRecord(context.Background(), extraction.Record{
		Customer: "A", PONumber: "1",
		Products: []extraction.LineItem{{Name: "w", Quantity: "1", UnitPrice: "1", Amount: "1"}},
	}, &missing)
	assert.ErrorIs(t, err, common.ErrDatabase)
}
