package extraction

import "regexp"

// purchaseOrderExtractor reads vendor "PURCHASE ORDER" forms with bill-to and
// ship-to blocks and a numbered item table.
type purchaseOrderExtractor struct{}

var (
	f2PONumber    = regexp.MustCompile(`(?i)\bp\.?\s*o\.?[ \t]*(?:number|no\.?|#)[ \t]*:?[ \t]*([A-Za-z0-9][A-Za-z0-9\-/_.]*)`)
	f2Customer    = regexp.MustCompile(`(?i)^\s*(?:bill\s+to|sold\s+to|company|customer)\s*(?::\s*(.*)|$)`)
	f2Destination = regexp.MustCompile(`(?i)^\s*ship\s+to\s*(?::\s*(.*)|$)`)
	f2Payment     = regexp.MustCompile(`(?i)^\s*(?:payment\s+)?terms\s*:\s*(.*)$`)
	f2Terms       = regexp.MustCompile(`(?i)^\s*(?:ship\s+via|incoterms?|delivery\s+terms|fob)\s*:\s*(.*)$`)
	f2Currency    = regexp.MustCompile(`(?im)^\s*currency\s*:\s*([A-Za-z]{3})\b`)
	f2Total       = regexp.MustCompile(`(?im)^\s*(?:grand\s+)?total(?:\s+amount)?\s*(?:\(\s*[A-Za-z]{3}\s*\))?\s*:?\s*(` + moneyPattern + `)`)
	f2Header      = regexp.MustCompile(`(?i)item\s*(?:no\.?|#)?\s+description\s+qty`)
)

func (purchaseOrderExtractor) Extract(text string) Record {
	rec := newRecord()
	lines := splitLines(text)

	rec.PONumber = trimID(firstCapture(text, f2PONumber))
	rec.Customer = lineValue(lines, f2Customer)
	rec.Destination = lineValue(lines, f2Destination)
	rec.PaymentTerms = lineValue(lines, f2Payment)
	rec.Terms = lineValue(lines, f2Terms)
	rec.Currency = firstCapture(text, f2Currency)
	rec.TotalAmount = lastCapture(text, f2Total)

	for _, row := range tableRows(lines, f2Header, reTotalLine) {
		if item, ok := parseRow(row, true); ok {
			rec.Products = append(rec.Products, item)
		}
	}
	detectCurrency(&rec)
	return rec
}
