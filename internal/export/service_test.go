package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/po-tracker/internal/entity"
)

func TestWriteWorkbook(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	pos := []*entity.PurchaseOrder{{
		ID:           id,
		CustomerName: "Northwind Traders LLC",
		PONumber:     "PO-88231",
		Currency:     "USD",
		TotalAmount:  decimal.RequireFromString("1140.00"),
		Status:       "手配前",
		CreatedAt:    time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC),
		Items: []entity.OrderItem{
			{ProductName: "Matcha Latte Mix", Quantity: decimal.NewFromInt(120), UnitPrice: decimal.RequireFromString("4.5"), Subtotal: decimal.NewFromInt(540)},
			{ProductName: "Sencha Tea Bags", Quantity: decimal.NewFromInt(300), UnitPrice: decimal.NewFromInt(2), Subtotal: decimal.NewFromInt(600)},
		},
		Input: &entity.POInput{
			ShipmentArrangement: "手配前",
			POAcquisitionDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			PaymentStatus:       "未払い",
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, pos))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetOrders, SheetItems}, f.GetSheetList())

	rows, err := f.GetRows(SheetOrders)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, orderHeaders, rows[0])
	assert.Equal(t, id.String(), rows[1][0])
	assert.Equal(t, "PO-88231", rows[1][2])
	assert.Equal(t, "1140", rows[1][4])
	assert.Equal(t, "2024-03-15", rows[1][10])
	assert.Equal(t, "未払い", rows[1][13])

	items, err := f.GetRows(SheetItems)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Matcha Latte Mix", items[1][3])
	assert.Equal(t, "4.5", items[1][5])
	assert.Equal(t, "2", items[2][2])
}

func TestWriteWorkbookEmpty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetItems)
	require.NoError(t, err)
	assert.Equal(t, [][]string{itemHeaders}, rows)
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "発注…", truncate("発注書です", 3))
}
