package dto

// EnrichedData carries the business details the automation service resolved
// for a submission. Every sub-field is optional.
type EnrichedData struct {
	Name          string            `json:"name,omitempty"`
	Website       string            `json:"website,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	Email         string            `json:"email,omitempty"`
	Address       string            `json:"address,omitempty"`
	Description   string            `json:"description,omitempty"`
	Industry      string            `json:"industry,omitempty"`
	EmployeeCount *int              `json:"employeeCount,omitempty"`
	Revenue       string            `json:"revenue,omitempty"`
	SocialMedia   map[string]string `json:"socialMedia,omitempty"`
	ExtraDetails  map[string]any    `json:"extraDetails,omitempty"`
}

// EnrichmentCallbackRequest is the payload posted back by the automation
// service once it has enriched a submission.
type EnrichmentCallbackRequest struct {
	SubmissionID string       `json:"submissionId"`
	EnrichedData EnrichedData `json:"enrichedData"`
}
