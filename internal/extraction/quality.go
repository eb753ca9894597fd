package extraction

import (
	"fmt"
	"math"
	"strings"
)

const (
	lowQualityThreshold  = 0.5
	goodQualityThreshold = 0.8

	RecommendationLow    = "Extraction quality is low. Please review the document manually."
	RecommendationFill   = "Some fields are missing. Please fill in the missing fields."
	RecommendationGood   = "Extraction quality is good."
	missingProductsField = "products"
)

var (
	requiredHeaderFields = []string{"customer", "poNumber", "totalAmount"}
	requiredItemFields   = []string{"name", "quantity", "unitPrice", "amount"}
)

// Assess scores how complete rec is. Item fields are checked on the first
// product only, and a record holding just the sentinel item counts as having
// no products. Missing item fields are reported as one "products(...)" entry
// but each of them counts against completeness.
func Assess(rec Record) Assessment {
	var missing []string
	missingCount := 0

	header := map[string]string{
		"customer":    rec.Customer,
		"poNumber":    rec.PONumber,
		"totalAmount": rec.TotalAmount,
	}
	for _, f := range requiredHeaderFields {
		if header[f] == "" {
			missing = append(missing, f)
			missingCount++
		}
	}

	hasProduct := len(rec.Products) > 0 && !rec.Products[0].IsSentinel()
	totalFields := len(requiredHeaderFields)
	if hasProduct {
		totalFields += len(requiredItemFields)
		first := rec.Products[0]
		item := map[string]string{
			"name":      first.Name,
			"quantity":  first.Quantity,
			"unitPrice": first.UnitPrice,
			"amount":    first.Amount,
		}
		var sub []string
		for _, f := range requiredItemFields {
			if item[f] == "" {
				sub = append(sub, f)
			}
		}
		if len(sub) > 0 {
			missing = append(missing, fmt.Sprintf("%s(%s)", missingProductsField, strings.Join(sub, ", ")))
			missingCount += len(sub)
		}
	} else {
		totalFields++
		missing = append(missing, missingProductsField)
		missingCount++
	}

	raw := float64(totalFields-missingCount) / float64(totalFields)
	out := Assessment{
		Completeness:   round2(raw),
		Confidence:     round2(math.Min(1.0, raw*1.2)),
		MissingFields:  missing,
		Recommendation: recommend(raw),
	}
	if out.MissingFields == nil {
		out.MissingFields = []string{}
	}
	return out
}

func recommend(completeness float64) string {
	switch {
	case completeness < lowQualityThreshold:
		return RecommendationLow
	case completeness < goodQualityThreshold:
		return RecommendationFill
	default:
		return RecommendationGood
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
