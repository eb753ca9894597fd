package extraction

// FormatID identifies a known purchase-order layout.
type FormatID string

const (
	Format1 FormatID = "format1" // "Buyer's Info" export order
	Format2 FormatID = "format2" // "PURCHASE ORDER" vendor form
	Format3 FormatID = "format3" // "ORDER CONFIRMATION" sheet
	Unknown FormatID = "unknown"

	// Generic is a routing target only; the classifier never returns it.
	Generic FormatID = "generic"
)

// KnownFormats lists the classification outcomes in tie-break order.
var KnownFormats = []FormatID{Format1, Format2, Format3}

// AllCandidates is the key set reported in Stats.FormatCandidates.
var AllCandidates = []FormatID{Format1, Format2, Format3, Unknown}

// SelectionThreshold is the minimum classifier score for a named format to be used.
const SelectionThreshold = 0.4

// SentinelProductName is the name of the placeholder item inserted when no products were found.
const SentinelProductName = "Unknown Product"

// Record is the structured result of extracting a purchase order from OCR text.
// Numeric-looking values stay strings until registration parses them.
type Record struct {
	Customer     string     `json:"customer"`
	PONumber     string     `json:"poNumber"`
	TotalAmount  string     `json:"totalAmount"`
	Products     []LineItem `json:"products"`
	PaymentTerms string     `json:"paymentTerms,omitempty"`
	Terms        string     `json:"terms,omitempty"`
	Destination  string     `json:"destination,omitempty"`
	Currency     string     `json:"currency,omitempty"`
}

// LineItem is one product row of a purchase order.
type LineItem struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Amount    string `json:"amount"`
}

// IsSentinel reports whether the item is the placeholder inserted by ValidateAndClean.
func (li LineItem) IsSentinel() bool {
	return li.Name == SentinelProductName && li.Quantity == "" && li.UnitPrice == "" && li.Amount == ""
}

// Verdict is the classifier's decision for one text. When no format reaches
// SelectionThreshold, Format is Unknown and Confidence holds the best
// rejected score, or 0 when nothing matched.
type Verdict struct {
	Format     FormatID `json:"format"`
	Confidence float64  `json:"confidence"`
}

// Assessment describes how complete an extracted record is.
type Assessment struct {
	Completeness   float64  `json:"completeness"`
	Confidence     float64  `json:"confidence"`
	MissingFields  []string `json:"missingFields"`
	Recommendation string   `json:"recommendation"`
}

// Stats summarizes one extraction run.
type Stats struct {
	TextLength        int                  `json:"textLength"`
	WordCount         int                  `json:"wordCount"`
	FormatCandidates  map[FormatID]float64 `json:"formatCandidates"`
	QualityAssessment Assessment           `json:"qualityAssessment"`
}

// Result bundles everything Analyze produces.
type Result struct {
	Record  Record   `json:"data"`
	Verdict Verdict  `json:"verdict"`
	Routed  FormatID `json:"routedTo"`
	Stats   Stats    `json:"stats"`
}
