package purchaseorders

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var reNotNumeric = regexp.MustCompile(`[^0-9,.\-]`)

// ParseAmount reads a money or quantity value the way OCR leaves it
// ("$6,250.00", "120 pcs", "USD 7,850"). Anything unreadable is zero.
func ParseAmount(s string) decimal.Decimal {
	cleaned := reNotNumeric.ReplaceAllString(s, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.Trim(cleaned, ".-")
	if strings.HasPrefix(strings.TrimSpace(s), "-") && cleaned != "" {
		cleaned = "-" + cleaned
	}
	if cleaned == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(cleaned); err == nil {
		return d
	}
	if f, err := cast.ToFloat64E(cleaned); err == nil {
		return decimal.NewFromFloat(f)
	}
	return decimal.Zero
}
