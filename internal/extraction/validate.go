package extraction

import (
	"fmt"

	"github.com/joseph-ayodele/po-tracker/internal/common"
)

var (
	unitTokens     = []string{"kg", "KG", "mt", "MT"}
	currencyTokens = []string{"$", "USD"}
)

// ValidateAndClean repairs an extracted record in place: a record without
// products gets one sentinel item, and unit or currency noise is stripped from
// numeric fields. It fails only when rec itself is malformed (nil, or a nil
// products slice), which means an extractor broke its contract.
func ValidateAndClean(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("validate record: nil record: %w", common.ErrInvariant)
	}
	if rec.Products == nil {
		return fmt.Errorf("validate record: products not initialized: %w", common.ErrInvariant)
	}

	if len(rec.Products) == 0 {
		rec.Products = append(rec.Products, LineItem{Name: SentinelProductName})
	}

	for i := range rec.Products {
		p := &rec.Products[i]
		if containsAny(p.Quantity, unitTokens...) {
			p.Quantity = StripNonNumeric(p.Quantity)
		}
		if containsAny(p.UnitPrice, currencyTokens...) {
			p.UnitPrice = StripNonNumeric(p.UnitPrice)
		}
		if containsAny(p.Amount, currencyTokens...) {
			p.Amount = StripNonNumeric(p.Amount)
		}
	}
	if containsAny(rec.TotalAmount, currencyTokens...) {
		rec.TotalAmount = StripNonNumeric(rec.TotalAmount)
	}
	return nil
}
