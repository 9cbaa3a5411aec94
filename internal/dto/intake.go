package dto

// SubmitRequest is the public intake form payload.
type SubmitRequest struct {
	BusinessType string `json:"businessType"`
	City         string `json:"city"`
	Province     string `json:"province"`
	Country      string `json:"country"`
}

// StatusUpdateRequest changes the review status of a submission.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}
