package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/po-tracker/internal/common"
)

func TestValidateAndCleanInsertsSentinel(t *testing.T) {
	t.Parallel()
	rec := newRecord()
	require.NoError(t, ValidateAndClean(&rec))
	require.Len(t, rec.Products, 1)
	assert.Equal(t, LineItem{Name: SentinelProductName}, rec.Products[0])
	assert.True(t, rec.Products[0].IsSentinel())
}

func TestValidateAndCleanStripsNoise(t *testing.T) {
	t.Parallel()
	rec := Record{
		TotalAmount: "USD 7,850.00",
		Products: []LineItem{
			{Name: "Tea", Quantity: "500 MT", UnitPrice: "$1,234.56", Amount: "US$ 617,280.00"},
			{Name: "Rice", Quantity: "12 kg", UnitPrice: "950.00", Amount: "11,400.00"},
			{Name: "Cups", Quantity: "100 pcs", UnitPrice: "€3.00", Amount: "300.00 EUR"},
		},
	}
	require.NoError(t, ValidateAndClean(&rec))

	assert.Equal(t, "7,850.00", rec.TotalAmount)
	assert.Equal(t, LineItem{Name: "Tea", Quantity: "500", UnitPrice: "1,234.56", Amount: "617,280.00"}, rec.Products[0])
	assert.Equal(t, LineItem{Name: "Rice", Quantity: "12", UnitPrice: "950.00", Amount: "11,400.00"}, rec.Products[1])
	// no unit or currency token recognized: left untouched
	assert.Equal(t, LineItem{Name: "Cups", Quantity: "100 pcs", UnitPrice: "€3.00", Amount: "300.00 EUR"}, rec.Products[2])
}

func TestValidateAndCleanKeepsExistingProducts(t *testing.T) {
	t.Parallel()
	rec := Record{Products: []LineItem{{Name: "Only"}}}
	require.NoError(t, ValidateAndClean(&rec))
	assert.Len(t, rec.Products, 1)
	assert.Equal(t, "Only", rec.Products[0].Name)
}

func TestValidateAndCleanInvariantViolations(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, ValidateAndClean(nil), common.ErrInvariant)

	rec := Record{Customer: "x"}
	assert.ErrorIs(t, ValidateAndClean(&rec), common.ErrInvariant)
}
