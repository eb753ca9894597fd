package purchaseorders

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/spf13/cast"
)

var (
	allowedTopLevel = map[string]struct{}{
		"customer": {}, "poNumber": {}, "currency": {}, "totalAmount": {},
		"paymentTerms": {}, "terms": {}, "destination": {}, "products": {},
		"shipment_arrangement": {}, "po_acquisition_date": {}, "organization": {},
		"invoice_number": {}, "payment_status": {}, "booking_number": {}, "memo": {},
		"ocrId": {},
	}
	allowedProduct = map[string]struct{}{
		"name": {}, "quantity": {}, "unitPrice": {}, "amount": {},
	}
	// kept even when blank so the schema reports them
	requiredTopLevel = map[string]struct{}{"customer": {}, "poNumber": {}}
	requiredProduct  = allowedProduct
)

// Sanitize
// - Trims strings; drops blank optionals and nulls
// - Coerces numbers and booleans to strings
// - Upper-cases the currency code
// - Removes unknown keys, top level and per product
//
// It returns the cleaned document and a note for every key it dropped.
func Sanitize(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}
	if m == nil {
		return nil, nil, fmt.Errorf("sanitize: payload must be a JSON object")
	}

	dropped := make([]string, 0, 4)
	cleanObject(m, allowedTopLevel, requiredTopLevel, "", &dropped)

	if v, ok := m["currency"].(string); ok {
		m["currency"] = strings.ToUpper(v)
	}

	if items, ok := m["products"].([]any); ok {
		for i, it := range items {
			if pm, ok := it.(map[string]any); ok {
				cleanObject(pm, allowedProduct, requiredProduct, fmt.Sprintf("products[%d].", i), &dropped)
			}
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("po.register.sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

func cleanObject(m map[string]any, allowed, required map[string]struct{}, prefix string, dropped *[]string) {
	for k, v := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			*dropped = append(*dropped, prefix+k+"(unknown)")
			continue
		}
		_, keep := required[k]
		switch t := v.(type) {
		case nil:
			if keep {
				m[k] = ""
				continue
			}
			delete(m, k)
			*dropped = append(*dropped, prefix+k+"(null)")
		case string:
			s := strings.TrimSpace(t)
			if s == "" && !keep {
				delete(m, k)
				*dropped = append(*dropped, prefix+k+"(empty)")
				continue
			}
			m[k] = s
		case float64, bool:
			m[k] = cast.ToString(t)
		default:
			// arrays and objects are left for the schema to judge
		}
	}
}
