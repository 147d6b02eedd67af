package entity

import (
	"time"

	"github.com/google/uuid"
)

// UploadBatch is one ingestion run. It is immutable once persisted; every
// slip produced in the run carries its id.
type UploadBatch struct {
	ID          uuid.UUID `json:"id"`
	FileName    *string   `json:"file_name,omitempty"`
	FileURL     *string   `json:"file_url,omitempty"`
	PeriodMonth string    `json:"period_month"`
	Total       int       `json:"total"`
	Matched     int       `json:"matched"`
	Pending     int       `json:"pending"`
	CreatedAt   time.Time `json:"created_at"`
}
