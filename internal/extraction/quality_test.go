package extraction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssess(t *testing.T) {
	t.Parallel()
	full := LineItem{Name: "Widget", Quantity: "10", UnitPrice: "50.00", Amount: "500.00"}

	tests := []struct {
		name         string
		rec          Record
		completeness float64
		confidence   float64
		missing      []string
		advice       string
	}{
		{
			name:         "complete",
			rec:          Record{Customer: "Acme Corp", PONumber: "PO-100", TotalAmount: "500.00", Products: []LineItem{full}},
			completeness: 1.0,
			confidence:   1.0,
			missing:      []string{},
			advice:       RecommendationGood,
		},
		{
			name:         "sentinel only counts as no products",
			rec:          Record{Products: []LineItem{{Name: SentinelProductName}}},
			completeness: 0.0,
			confidence:   0.0,
			missing:      []string{"customer", "poNumber", "totalAmount", "products"},
			advice:       RecommendationLow,
		},
		{
			name:         "missing item fields each count",
			rec:          Record{Customer: "A", PONumber: "1", TotalAmount: "2", Products: []LineItem{{Name: "W", UnitPrice: "1"}}},
			completeness: 0.71,
			confidence:   0.86,
			missing:      []string{"products(quantity, amount)"},
			advice:       RecommendationFill,
		},
		{
			name:         "header only",
			rec:          Record{Customer: "A", PONumber: "1", TotalAmount: "2", Products: []LineItem{}},
			completeness: 0.75,
			confidence:   0.9,
			missing:      []string{"products"},
			advice:       RecommendationFill,
		},
		{
			name:         "only first product is checked",
			rec:          Record{Customer: "A", Products: []LineItem{full, {}}},
			completeness: 0.71,
			confidence:   0.86,
			missing:      []string{"poNumber", "totalAmount"},
			advice:       RecommendationFill,
		},
		{
			name:         "whitespace counts as present",
			rec:          Record{Customer: "  ", PONumber: "1", TotalAmount: "2", Products: []LineItem{{Name: "W", Quantity: " "}}},
			completeness: 0.71,
			confidence:   0.86,
			missing:      []string{"products(unitPrice, amount)"},
			advice:       RecommendationFill,
		},
		{
			name:         "empty strings are missing",
			rec:          Record{PONumber: "1", TotalAmount: "2", Products: []LineItem{{Name: "W"}}},
			completeness: 0.43,
			confidence:   0.51,
			missing:      []string{"customer", "products(quantity, unitPrice, amount)"},
			advice:       RecommendationLow,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			qa := Assess(tc.rec)
			assert.InDelta(t, tc.completeness, qa.Completeness, 1e-9)
			assert.InDelta(t, tc.confidence, qa.Confidence, 1e-9)
			assert.Equal(t, tc.missing, qa.MissingFields)
			assert.Equal(t, tc.advice, qa.Recommendation)
		})
	}
}

func TestAssessBounds(t *testing.T) {
	t.Parallel()
	recs := []Record{
		{},
		{Customer: "a"},
		{Customer: "a", PONumber: "b", TotalAmount: "c", Products: []LineItem{{Name: "n", Quantity: "q"}}},
		{Customer: "a", PONumber: "b", TotalAmount: "c", Products: []LineItem{{Name: "n", Quantity: "q", UnitPrice: "u", Amount: "m"}}},
	}
	for _, r := range recs {
		qa := Assess(r)
		assert.GreaterOrEqual(t, qa.Completeness, 0.0)
		assert.LessOrEqual(t, qa.Completeness, 1.0)
		assert.InDelta(t, math.Min(1.0, qa.Completeness*1.2), qa.Confidence, 0.02)
	}
}
