package extraction

import (
	_ "embed"
	"fmt"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed signatures.yaml
var defaultSignaturesYAML []byte

type signatureFile struct {
	Formats []formatSpec `yaml:"formats"`
}

type formatSpec struct {
	ID          string          `yaml:"id"`
	Description string          `yaml:"description"`
	Signatures  []signatureSpec `yaml:"signatures"`
}

type signatureSpec struct {
	Pattern string  `yaml:"pattern"`
	Weight  float64 `yaml:"weight"`
}

type signature struct {
	re     *regexp.Regexp
	weight float64
}

// formatSignatures is the compiled, read-only signature set of one format.
type formatSignatures struct {
	id    FormatID
	sigs  []signature
	total float64
}

func (fs formatSignatures) score(text string) float64 {
	if fs.total <= 0 {
		return 0
	}
	var matched float64
	for _, s := range fs.sigs {
		if s.re.MatchString(text) {
			matched += s.weight
		}
	}
	return matched / fs.total
}

var loadDefaultSignatures = sync.OnceValues(func() ([]formatSignatures, error) {
	return parseSignatures(defaultSignaturesYAML)
})

// parseSignatures decodes and compiles a signature table. The result is ordered
// like KnownFormats so that ties resolve to the lowest format.
func parseSignatures(data []byte) ([]formatSignatures, error) {
	var file signatureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode signatures: %w", err)
	}

	byID := make(map[FormatID]formatSignatures, len(file.Formats))
	for _, f := range file.Formats {
		id := FormatID(f.ID)
		if !isKnownFormat(id) {
			return nil, fmt.Errorf("signatures: unknown format %q", f.ID)
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("signatures: duplicate format %q", f.ID)
		}
		if len(f.Signatures) == 0 {
			return nil, fmt.Errorf("signatures: format %q has no patterns", f.ID)
		}
		compiled := formatSignatures{id: id, sigs: make([]signature, 0, len(f.Signatures))}
		for _, s := range f.Signatures {
			if s.Weight <= 0 {
				return nil, fmt.Errorf("signatures: %s pattern %q: weight must be positive", f.ID, s.Pattern)
			}
			re, err := regexp.Compile(s.Pattern)
			if err != nil {
				return nil, fmt.Errorf("signatures: %s pattern %q: %w", f.ID, s.Pattern, err)
			}
			compiled.sigs = append(compiled.sigs, signature{re: re, weight: s.Weight})
			compiled.total += s.Weight
		}
		byID[id] = compiled
	}

	out := make([]formatSignatures, 0, len(byID))
	for _, id := range KnownFormats {
		if fs, ok := byID[id]; ok {
			out = append(out, fs)
		}
	}
	return out, nil
}

func isKnownFormat(id FormatID) bool {
	for _, k := range KnownFormats {
		if k == id {
			return true
		}
	}
	return false
}
