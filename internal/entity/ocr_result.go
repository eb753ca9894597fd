package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OCRResult represents one uploaded document's OCR job for data transfer between layers.
type OCRResult struct {
	ID               uuid.UUID       `json:"ocrId"`
	OriginalFilename string          `json:"originalFilename"`
	Status           string          `json:"status"`
	TextContent      string          `json:"textContent,omitempty"`
	ProcessedData    json.RawMessage `json:"processedData,omitempty"`
	ErrorMessage     string          `json:"errorMessage,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}
