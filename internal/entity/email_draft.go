package entity

import "time"

// EmailDraftStatus enumerates the review states of a generated email draft.
type EmailDraftStatus string

const (
	EmailDraftPending  EmailDraftStatus = "pending"
	EmailDraftApproved EmailDraftStatus = "approved"
	EmailDraftSent     EmailDraftStatus = "sent"
)

// ValidEmailDraftStatus reports whether the value is a member of the draft enum.
func ValidEmailDraftStatus(value string) bool {
	switch EmailDraftStatus(value) {
	case EmailDraftPending, EmailDraftApproved, EmailDraftSent:
		return true
	}
	return false
}

// EmailDraft is an AI-generated outbound email candidate written into the
// store by the external automation service. The draft is keyed by the
// external business-entity identifier; RelatedEntityID names the
// cross-reference explicitly rather than relying on key reuse.
type EmailDraft struct {
	ID              string           `json:"id"`
	RelatedEntityID string           `json:"related_entity_id,omitempty"`
	BusinessName    string           `json:"business_name"`
	Address         string           `json:"address,omitempty"`
	BusinessEmail   string           `json:"business_email,omitempty"`
	AIEmail         string           `json:"ai_email"`
	MapLink         string           `json:"map_link,omitempty"`
	Status          EmailDraftStatus `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
}
