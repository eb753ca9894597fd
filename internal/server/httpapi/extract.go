package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const maxTextBytes = 2 << 20

type extractRequest struct {
	Text string `json:"text"`
}

// extractText analyzes OCR text posted as {"text": "..."} or as a plain body.
func (s *Server) extractText(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxTextBytes))
	if err != nil {
		fail(w, r, http.StatusBadRequest, "could not read body")
		return
	}

	text := string(body)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req extractRequest
		if err := json.Unmarshal(body, &req); err != nil {
			fail(w, r, http.StatusBadRequest, "invalid JSON body")
			return
		}
		text = req.Text
	}
	if strings.TrimSpace(text) == "" {
		fail(w, r, http.StatusBadRequest, "text is required")
		return
	}

	res, err := s.deps.Engine.Analyze(r.Context(), text)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	ok(w, r, "", res)
}
