package service

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/intake-api/internal/dto"
	"github.com/octobees/intake-api/internal/entity"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

const (
	minFieldLength     = 2
	trackingPrefix     = "utm_"
	defaultPhoneRegion = "US"
)

// FieldViolation names one invalid request field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field violation found in a payload.
type ValidationError struct {
	Violations []FieldViolation
}

// Error implements the error interface, joining every violation message.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "invalid payload"
	}
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return strings.Join(messages, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

// ValidateSubmitRequest trims and checks the four intake form fields. Every
// violation is collected before returning.
func ValidateSubmitRequest(req dto.SubmitRequest) (dto.SubmitRequest, error) {
	req.BusinessType = strings.TrimSpace(req.BusinessType)
	req.City = strings.TrimSpace(req.City)
	req.Province = strings.TrimSpace(req.Province)
	req.Country = strings.TrimSpace(req.Country)

	verr := &ValidationError{}
	checkMinLength(verr, "businessType", req.BusinessType)
	checkMinLength(verr, "city", req.City)
	checkMinLength(verr, "province", req.Province)
	checkMinLength(verr, "country", req.Country)

	return req, verr.orNil()
}

func checkMinLength(verr *ValidationError, field, value string) {
	if len([]rune(value)) < minFieldLength {
		verr.add(field, fmt.Sprintf("%s must be at least %d characters", field, minFieldLength))
	}
}

// ValidateStatus checks membership in the submission status enum.
func ValidateStatus(value string) (entity.SubmissionStatus, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if !entity.ValidSubmissionStatus(value) {
		verr := &ValidationError{}
		verr.add("status", fmt.Sprintf("status must be one of pending, approved, rejected, contacted; got %q", value))
		return "", verr
	}
	return entity.SubmissionStatus(value), nil
}

// ValidateEnrichmentCallback checks the callback payload and normalizes its
// optional contact sub-fields: phone numbers to E.164, email addresses to
// lowercase syntax-checked form, website and social links to https URLs with
// tracking parameters stripped. Unusable optional values are dropped rather
// than rejected; only the submission id is mandatory.
func ValidateEnrichmentCallback(req dto.EnrichmentCallbackRequest) (uuid.UUID, dto.EnrichedData, error) {
	verr := &ValidationError{}

	rawID := strings.TrimSpace(req.SubmissionID)
	if rawID == "" {
		verr.add("submissionId", "submissionId is required")
		return uuid.Nil, dto.EnrichedData{}, verr
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		verr.add("submissionId", "submissionId must be a valid identifier")
		return uuid.Nil, dto.EnrichedData{}, verr
	}

	data := req.EnrichedData
	data.Name = strings.TrimSpace(data.Name)
	data.Address = strings.TrimSpace(data.Address)
	data.Description = strings.TrimSpace(data.Description)
	data.Industry = strings.TrimSpace(data.Industry)
	data.Revenue = strings.TrimSpace(data.Revenue)
	data.Phone = normalizePhone(data.Phone, defaultPhoneRegion)
	data.Email = normalizeEmail(data.Email)
	data.Website = sanitizeLink(data.Website)

	if len(data.SocialMedia) > 0 {
		socials := make(map[string]string, len(data.SocialMedia))
		for network, link := range data.SocialMedia {
			if sanitized := sanitizeLink(link); sanitized != "" {
				socials[strings.ToLower(strings.TrimSpace(network))] = sanitized
			}
		}
		if len(socials) == 0 {
			socials = nil
		}
		data.SocialMedia = socials
	}

	return id, data, nil
}

// ValidateSendEmailRequest checks the dispatch payload: all fields required,
// recipient must be a syntactically valid address.
func ValidateSendEmailRequest(req dto.SendEmailRequest) (dto.SendEmailRequest, error) {
	req.EmailID = strings.TrimSpace(req.EmailID)
	req.RecipientEmail = strings.TrimSpace(req.RecipientEmail)
	req.Subject = strings.TrimSpace(req.Subject)

	verr := &ValidationError{}
	if req.EmailID == "" {
		verr.add("emailId", "emailId is required")
	}
	if req.RecipientEmail == "" {
		verr.add("recipientEmail", "recipientEmail is required")
	} else if normalizeEmail(req.RecipientEmail) == "" {
		verr.add("recipientEmail", "recipientEmail must be a valid email address")
	} else {
		req.RecipientEmail = normalizeEmail(req.RecipientEmail)
	}
	if req.Subject == "" {
		verr.add("subject", "subject is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		verr.add("body", "body is required")
	}

	return req, verr.orNil()
}

// normalizeEmail lowercases and syntax-checks an address, including IDN
// domain conversion. Returns "" when the address is unusable.
func normalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !emailPattern.MatchString(email) {
		return ""
	}
	parts := strings.SplitN(email, "@", 2)
	if !isDomainValid(parts[1]) {
		return ""
	}
	if ascii, err := idnaProfile.ToASCII(parts[1]); err != nil || ascii == "" {
		return ""
	}
	return email
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func sanitizeLink(raw string) string {
	u, err := sanitizeURL(raw)
	if err != nil {
		return ""
	}
	stripTracking(u)
	return u.String()
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	u.Scheme = "https"
	return u, nil
}

func stripTracking(u *url.URL) {
	if u == nil {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}
