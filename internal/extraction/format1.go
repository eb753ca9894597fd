package extraction

import "regexp"

// buyersInfoExtractor reads export orders that open with a "Buyer's Info" block:
//
//	BUYER'S INFO
//	Buyer: Sakura Foods Co., Ltd.
//	Buyer's PO No.: BP-2024-0117
//	Destination: Yokohama, Japan
//	Description        Quantity   Unit Price   Amount
//	Green Tea Powder   500 kg     $12.50       $6,250.00
//	Total Amount: USD 6,250.00
type buyersInfoExtractor struct{}

var (
	f1Customer    = regexp.MustCompile(`(?i)^\s*buyer(?:\s+name)?\s*:\s*(.*)$`)
	f1PONumber    = regexp.MustCompile(`(?i)buyer.?s\s+p\.?\s*o\.?\s*(?:no\.?|number|#)\s*:?\s*([A-Za-z0-9][A-Za-z0-9\-/_.]*)`)
	f1Destination = regexp.MustCompile(`(?i)^\s*(?:destination|final\s+destination)\s*:\s*(.*)$`)
	f1Payment     = regexp.MustCompile(`(?i)^\s*payment\s+terms\s*:\s*(.*)$`)
	f1Terms       = regexp.MustCompile(`(?i)^\s*(?:shipping|trade|delivery)\s+terms\s*:\s*(.*)$`)
	f1Currency    = regexp.MustCompile(`(?im)^\s*currency\s*:\s*([A-Za-z]{3})\b`)
	f1Total       = regexp.MustCompile(`(?im)^\s*total\s+amount\s*(?:\(\s*[A-Za-z]{3}\s*\))?\s*:?\s*(.+)$`)
	f1Header      = regexp.MustCompile(`(?i)description\s+quantity\s+unit\s*price\s+amount`)
)

func (buyersInfoExtractor) Extract(text string) Record {
	rec := newRecord()
	lines := splitLines(text)

	rec.Customer = lineValue(lines, f1Customer)
	rec.PONumber = trimID(firstCapture(text, f1PONumber))
	rec.Destination = lineValue(lines, f1Destination)
	rec.PaymentTerms = lineValue(lines, f1Payment)
	rec.Terms = lineValue(lines, f1Terms)
	rec.Currency = firstCapture(text, f1Currency)
	if total := lastCapture(text, f1Total); total != "" {
		rec.TotalAmount = moneyIn(total)
	}

	for _, row := range tableRows(lines, f1Header, reTotalLine) {
		if item, ok := parseRow(row, false); ok {
			rec.Products = append(rec.Products, item)
		}
	}
	detectCurrency(&rec)
	return rec
}
