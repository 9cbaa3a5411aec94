package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus enumerates the review states of an intake submission.
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionApproved  SubmissionStatus = "approved"
	SubmissionRejected  SubmissionStatus = "rejected"
	SubmissionContacted SubmissionStatus = "contacted"
)

// ValidSubmissionStatus reports whether the value is a member of the status enum.
func ValidSubmissionStatus(value string) bool {
	switch SubmissionStatus(value) {
	case SubmissionPending, SubmissionApproved, SubmissionRejected, SubmissionContacted:
		return true
	}
	return false
}

// Submission represents a business-intake record created from the public form.
// EnrichedData is populated asynchronously by the external automation service
// and is stored as an opaque document; status review is orthogonal to it.
type Submission struct {
	ID           uuid.UUID        `json:"id"`
	BusinessType string           `json:"business_type"`
	City         string           `json:"city"`
	Province     string           `json:"province"`
	Country      string           `json:"country"`
	Status       SubmissionStatus `json:"status"`
	EnrichedData json.RawMessage  `json:"enriched_data,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
