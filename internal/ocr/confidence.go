package ocr

import (
	"regexp"
	"strings"
)

var (
	reDate   = regexp.MustCompile(`\b20\d{2}[-/.年]\d{1,2}[-/.月]\d{1,2}`)
	reCurr   = regexp.MustCompile(`\b(usd|eur|gbp|cad|aud|jpy|cny)\b|[$£€¥]`)
	reAmount = regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d{2})\b|\b\d+\.\d{2}\b`)
	rePO     = regexp.MustCompile(`purchase\s+order|p\.?\s?o\.?\s*(no|number|#)|order\s+confir?mation|buyer'?s?\s+info|発注`)
)

// heuristicConfidence scores how much the text looks like a purchase order.
func heuristicConfidence(txt string) float32 {
	if strings.TrimSpace(txt) == "" {
		return 0
	}
	txtL := strings.ToLower(txt)
	score := float32(0.2)
	if reDate.MatchString(txtL) {
		score += 0.15
	}
	if reCurr.MatchString(txtL) {
		score += 0.15
	}
	if reAmount.MatchString(txtL) {
		score += 0.15
	}
	if rePO.MatchString(txtL) {
		score += 0.2
	}
	if len(txt) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// blendConfidence weights engine confidence over the heuristic when present.
func blendConfidence(ocrConf, heurConf float32) float32 {
	conf := heurConf
	if ocrConf > 0 {
		conf = 0.7*ocrConf + 0.3*heurConf
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
