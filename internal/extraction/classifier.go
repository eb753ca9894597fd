package extraction

// Classifier scores text against the signature table of each known format.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	formats []formatSignatures
}

// NewClassifier returns a classifier over the embedded signature table.
func NewClassifier() (*Classifier, error) {
	formats, err := loadDefaultSignatures()
	if err != nil {
		return nil, err
	}
	return &Classifier{formats: formats}, nil
}

// NewClassifierFromYAML builds a classifier from a custom signature table.
func NewClassifierFromYAML(data []byte) (*Classifier, error) {
	formats, err := parseSignatures(data)
	if err != nil {
		return nil, err
	}
	return &Classifier{formats: formats}, nil
}

// Scores returns the score of every known format, each in [0,1].
func (c *Classifier) Scores(text string) map[FormatID]float64 {
	out := make(map[FormatID]float64, len(KnownFormats))
	for _, id := range KnownFormats {
		out[id] = 0
	}
	for _, fs := range c.formats {
		out[fs.id] = fs.score(text)
	}
	return out
}

// Identify returns the best-scoring format. When no format reaches
// SelectionThreshold the verdict is Unknown, carrying the best score seen.
func (c *Classifier) Identify(text string) Verdict {
	best := Verdict{Format: Unknown}
	for _, fs := range c.formats {
		s := fs.score(text)
		// strict comparison keeps the earlier format on ties
		if s > best.Confidence {
			best = Verdict{Format: fs.id, Confidence: s}
		}
	}
	if best.Confidence < SelectionThreshold {
		best.Format = Unknown
	}
	return best
}
