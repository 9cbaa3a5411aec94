package dto

// SendEmailRequest asks the dispatch service to deliver a reviewed draft.
type SendEmailRequest struct {
	EmailID        string `json:"emailId"`
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}
