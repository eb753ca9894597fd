package extraction

import (
	"regexp"
	"strings"
)

const (
	qtyPattern   = `\d[\d,]*(?:\.\d+)?(?:\s?(?:kgs?|mt|pcs|units?|cs|ctns?|bags?|sets?|ea))?`
	moneyPattern = `(?:(?:US\$|\$|USD)\s?\d[\d,]*(?:\.\d+)?|\d[\d,]*\.\d{1,4})(?:\s?USD)??`
)

var (
	// name, quantity (optionally with unit), unit price, amount
	reRow = regexp.MustCompile(`(?i)^(.+?)\s+(` + qtyPattern + `)\s+(` + moneyPattern + `)\s+(` + moneyPattern + `)$`)

	reItemNo    = regexp.MustCompile(`^\d{1,3}[.)]?\s+`)
	reTotalLine = regexp.MustCompile(`(?i)^(?:sub\s*-?\s*total|grand\s+total|total|amount\s+due|balance\s+due)\b`)
	reColumnGap = regexp.MustCompile(`\s{2,}`)
	reSpaces    = regexp.MustCompile(`\s+`)
	reMoney     = regexp.MustCompile(`(?i)` + moneyPattern)
)

// parseRow splits one table line into a line item. Lines that are totals,
// page markers or do not end in quantity/price/amount columns are rejected.
func parseRow(line string, stripItemNo bool) (LineItem, bool) {
	line = strings.TrimSpace(line)
	if line == "" || isPageMarker(line) || reTotalLine.MatchString(line) {
		return LineItem{}, false
	}
	if stripItemNo {
		line = reItemNo.ReplaceAllString(line, "")
	}
	m := reRow.FindStringSubmatch(line)
	if m == nil {
		return LineItem{}, false
	}
	name := collapse(m[1])
	if name == "" {
		return LineItem{}, false
	}
	return LineItem{
		Name:      name,
		Quantity:  collapse(m[2]),
		UnitPrice: collapse(m[3]),
		Amount:    collapse(m[4]),
	}, true
}

// tableRows returns the lines after the first header match, up to the first
// stop line. Blank lines and page markers inside the table are skipped so a
// table continuing on the next page is read whole.
func tableRows(lines []string, header, stop *regexp.Regexp) []string {
	start := -1
	for i, ln := range lines {
		if header.MatchString(ln) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}
	var rows []string
	for _, ln := range lines[start:] {
		t := strings.TrimSpace(ln)
		if t == "" || isPageMarker(t) {
			continue
		}
		if stop.MatchString(t) {
			break
		}
		rows = append(rows, t)
	}
	return rows
}

// lineValue finds the first line matching re and returns its first capture
// group. When the label stands alone, the next non-empty line is the value.
func lineValue(lines []string, re *regexp.Regexp) string {
	for i, ln := range lines {
		m := re.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		if len(m) > 1 {
			if v := cleanValue(m[1]); v != "" {
				return v
			}
		}
		for _, next := range lines[i+1:] {
			if t := strings.TrimSpace(next); t != "" && !isPageMarker(t) {
				return cleanValue(t)
			}
		}
		return ""
	}
	return ""
}

// firstCapture returns the first capture group of the first pattern that matches.
func firstCapture(text string, res ...*regexp.Regexp) string {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			if v := cleanValue(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// lastCapture returns the first capture group of the last match of re.
// Totals printed after subtotals and tax lines are the ones wanted.
func lastCapture(text string, re *regexp.Regexp) string {
	all := re.FindAllStringSubmatch(text, -1)
	for i := len(all) - 1; i >= 0; i-- {
		if len(all[i]) > 1 {
			if v := cleanValue(all[i][1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// cleanValue trims a captured value to its own column and tidies whitespace.
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	if loc := reColumnGap.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = strings.Trim(s, " ,;:")
	return collapse(s)
}

func collapse(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// moneyIn extracts the first money-looking token of s, or s itself when none is found.
func moneyIn(s string) string {
	if m := reMoney.FindString(s); m != "" {
		return strings.TrimSpace(m)
	}
	return s
}

// detectCurrency guesses the currency code from amounts when no label gave one.
func detectCurrency(rec *Record) {
	if rec.Currency != "" {
		return
	}
	if containsAny(rec.TotalAmount, "$", "USD") {
		rec.Currency = "USD"
		return
	}
	for _, p := range rec.Products {
		if containsAny(p.UnitPrice+p.Amount, "$", "USD") {
			rec.Currency = "USD"
			return
		}
	}
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// trimID drops punctuation OCR tends to glue onto the end of identifiers.
func trimID(s string) string {
	return strings.TrimRight(s, ".-/_")
}
