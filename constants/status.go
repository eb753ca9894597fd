package constants

// OCRStatus is the lifecycle state of an uploaded document's OCR job.
type OCRStatus string

// Stable values (store these exact strings in DB).
const (
	OCRStatusProcessing OCRStatus = "processing" // row created, OCR + extraction running
	OCRStatusCompleted  OCRStatus = "completed"  // processed_data holds the record
	OCRStatusFailed     OCRStatus = "failed"     // terminal failure, error_message set
)

var OCRStatuses = []string{
	string(OCRStatusProcessing),
	string(OCRStatusCompleted),
	string(OCRStatusFailed),
}

// Purchase order bookkeeping defaults. The values are shown to Japanese-speaking
// operators and are stored verbatim.
const (
	POStatusPending          = "手配前" // shipment not arranged yet
	POStatusArranged         = "手配済" // shipment arranged
	PaymentStatusUnpaid      = "未払い"
	PaymentStatusPaid        = "支払済"
	ShipmentArrangementEmpty = POStatusPending

	DefaultCurrency = "USD"
)

var POStatuses = []string{POStatusPending, POStatusArranged}

var PaymentStatuses = []string{PaymentStatusUnpaid, PaymentStatusPaid}
