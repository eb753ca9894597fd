package extraction

import (
	"regexp"
	"strings"
)

// orderConfirmationExtractor reads "ORDER CONFIRMATION" sheets (OCR often
// drops the r: "CONFIMATION") whose table header declares the quantity unit
// and the price currency, e.g. "Product Name  Qty(MT)  Price(USD/MT)  Amount(USD)".
type orderConfirmationExtractor struct{}

var (
	f3Customer    = regexp.MustCompile(`(?i)^\s*customer(?:\s+name)?\s*:\s*(.*)$`)
	f3CustomerPO  = regexp.MustCompile(`(?i)customer.?s?\s+p\.?\s*o\.?\s*(?:no\.?|number|#)?\s*:\s*([A-Za-z0-9][A-Za-z0-9\-/_.]*)`)
	f3OrderNo     = regexp.MustCompile(`(?im)^\s*(?:order|contract)\s+no\.?\s*:\s*([A-Za-z0-9][A-Za-z0-9\-/_.]*)`)
	f3Payment     = regexp.MustCompile(`(?i)^\s*payment(?:\s+terms?)?\s*:\s*(.*)$`)
	f3Destination = regexp.MustCompile(`(?i)^\s*(?:port\s+of\s+(?:destination|discharge)|destination)\s*:\s*(.*)$`)
	f3Terms       = regexp.MustCompile(`(?i)^\s*(?:price|trade)\s+terms?\s*:\s*(.*)$`)
	f3Total       = regexp.MustCompile(`(?im)^\s*(?:grand\s+)?total(?:\s+amount)?\s*(?:\(\s*[A-Za-z]{3}\s*\))?\s*:?\s*(` + moneyPattern + `)`)
	f3Header      = regexp.MustCompile(`(?i)product\s*(?:name)?\s+q(?:ty|uantity)`)
	f3QtyUnit     = regexp.MustCompile(`(?i)q(?:ty|uantity)\s*\(\s*([A-Za-z]+)\s*\)`)
	f3AmountCur   = regexp.MustCompile(`(?i)amount\s*\(\s*([A-Za-z]{3})\s*\)`)
	reHasUnit     = regexp.MustCompile(`[A-Za-z]`)
)

func (orderConfirmationExtractor) Extract(text string) Record {
	rec := newRecord()
	lines := splitLines(text)

	rec.Customer = lineValue(lines, f3Customer)
	rec.PONumber = trimID(firstCapture(text, f3CustomerPO, f3OrderNo))
	rec.PaymentTerms = lineValue(lines, f3Payment)
	rec.Destination = lineValue(lines, f3Destination)
	rec.Terms = lineValue(lines, f3Terms)
	rec.TotalAmount = lastCapture(text, f3Total)

	var unit string
	for _, ln := range lines {
		if !f3Header.MatchString(ln) {
			continue
		}
		if m := f3QtyUnit.FindStringSubmatch(ln); m != nil {
			unit = strings.ToUpper(m[1])
		}
		if m := f3AmountCur.FindStringSubmatch(ln); m != nil {
			rec.Currency = strings.ToUpper(m[1])
		}
		break
	}

	for _, row := range tableRows(lines, f3Header, reTotalLine) {
		item, ok := parseRow(row, true)
		if !ok {
			continue
		}
		if unit != "" && !reHasUnit.MatchString(item.Quantity) {
			item.Quantity += " " + unit
		}
		rec.Products = append(rec.Products, item)
	}
	detectCurrency(&rec)
	return rec
}
