package extraction

// Extractor pulls a Record out of normalized OCR text. Implementations never
// fail: fields that cannot be located stay empty and an unreadable table
// yields no products. Products must be a non-nil slice.
type Extractor interface {
	Extract(text string) Record
}

// ExtractorFunc adapts a plain function to Extractor.
type ExtractorFunc func(text string) Record

func (f ExtractorFunc) Extract(text string) Record { return f(text) }

// DefaultExtractors returns a fresh registry of the built-in extractors.
func DefaultExtractors() map[FormatID]Extractor {
	return map[FormatID]Extractor{
		Format1: buyersInfoExtractor{},
		Format2: purchaseOrderExtractor{},
		Format3: orderConfirmationExtractor{},
		Generic: genericExtractor{},
	}
}

func newRecord() Record {
	return Record{Products: []LineItem{}}
}
