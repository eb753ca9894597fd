package extraction

import "regexp"

// genericExtractor is the fallback for text no known layout matched. It uses
// loose label anchors and treats every row-shaped line as a product.
type genericExtractor struct{}

// gPONumber requires a digit so labels like "Order No: see below" are skipped.
var (
	gCustomer    = regexp.MustCompile(`(?i)^\s*(?:customer|buyer|client|consignee|bill\s+to|sold\s+to|company)(?:.?s)?(?:\s+name)?\s*:\s*(.*)$`)
	gPONumber    = regexp.MustCompile(`(?i)\b(?:p\.?\s*o\.?|purchase\s+order|order)[ \t]*(?:number|no\.?|#)[ \t]*:?[ \t]*([A-Za-z0-9\-/_.]*\d[A-Za-z0-9\-/_.]*)`)
	gTotal       = regexp.MustCompile(`(?im)^\s*(?:grand\s+total|total\s+amount|total|amount\s+due)\s*(?:\(\s*[A-Za-z]{3}\s*\))?\s*:?\s*(` + moneyPattern + `)`)
	gPayment     = regexp.MustCompile(`(?i)^\s*payment(?:\s+terms?)?\s*:\s*(.*)$`)
	gDestination = regexp.MustCompile(`(?i)^\s*(?:destination|ship\s+to|port\s+of\s+(?:destination|discharge)|deliver\s+to)\s*:\s*(.*)$`)
	gTerms       = regexp.MustCompile(`(?i)^\s*(?:shipping|trade|delivery|price)\s+terms?\s*:\s*(.*)$`)
	gCurrency    = regexp.MustCompile(`(?im)^\s*currency\s*:\s*([A-Za-z]{3})\b`)
)

func (genericExtractor) Extract(text string) Record {
	rec := newRecord()
	lines := splitLines(text)

	rec.Customer = lineValue(lines, gCustomer)
	rec.PONumber = trimID(firstCapture(text, gPONumber))
	rec.TotalAmount = lastCapture(text, gTotal)
	rec.PaymentTerms = lineValue(lines, gPayment)
	rec.Destination = lineValue(lines, gDestination)
	rec.Terms = lineValue(lines, gTerms)
	rec.Currency = firstCapture(text, gCurrency)

	for _, ln := range lines {
		if item, ok := parseRow(ln, true); ok {
			rec.Products = append(rec.Products, item)
		}
	}
	detectCurrency(&rec)
	return rec
}
