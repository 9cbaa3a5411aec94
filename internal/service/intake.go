package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/intake-api/internal/dto"
	"github.com/octobees/intake-api/internal/entity"
	"github.com/octobees/intake-api/internal/repository"
	"github.com/octobees/intake-api/internal/webhook"
)

// IntakeService owns the submission lifecycle: intake, enrichment callbacks
// and operator status updates.
type IntakeService struct {
	submissions repository.SubmissionsRepository
	forwarder   webhook.Forwarder
	log         *zap.Logger
}

// NewIntakeService wires a new IntakeService instance.
func NewIntakeService(submissions repository.SubmissionsRepository, forwarder webhook.Forwarder, log *zap.Logger) *IntakeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &IntakeService{submissions: submissions, forwarder: forwarder, log: log}
}

// Submit validates the form payload, persists the submission and forwards it
// to the enrichment webhook. A webhook failure leaves the record persisted;
// there is no compensating delete and no retry.
func (s *IntakeService) Submit(ctx context.Context, req dto.SubmitRequest) (*entity.Submission, error) {
	req, err := ValidateSubmitRequest(req)
	if err != nil {
		return nil, err
	}

	submission, err := s.submissions.Create(ctx, req.BusinessType, req.City, req.Province, req.Country)
	if err != nil {
		return nil, fmt.Errorf("persist submission: %w", err)
	}

	if err := s.forwarder.Forward(ctx, submission); err != nil {
		s.log.Warn("enrichment webhook call failed; submission remains persisted",
			zap.String("submission_id", submission.ID.String()),
			zap.Error(err),
		)
		return submission, err
	}

	return submission, nil
}

// ListSubmissions returns all submissions, newest first.
func (s *IntakeService) ListSubmissions(ctx context.Context) ([]entity.Submission, error) {
	return s.submissions.List(ctx)
}

// UpdateStatus validates and applies an operator status change. A malformed
// id is treated the same as an absent one.
func (s *IntakeService) UpdateStatus(ctx context.Context, rawID, rawStatus string) (*entity.Submission, error) {
	status, err := ValidateStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, repository.ErrSubmissionNotFound
	}

	return s.submissions.UpdateStatus(ctx, id, status)
}

// ApplyEnrichment validates the callback payload and merges the normalized
// enrichment document onto the submission.
func (s *IntakeService) ApplyEnrichment(ctx context.Context, req dto.EnrichmentCallbackRequest) (*entity.Submission, error) {
	id, data, err := ValidateEnrichmentCallback(req)
	if err != nil {
		return nil, err
	}

	doc, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal enrichment document: %w", err)
	}

	submission, err := s.submissions.ApplyEnrichment(ctx, id, doc)
	if err != nil {
		return nil, err
	}

	s.log.Info("enrichment applied",
		zap.String("submission_id", submission.ID.String()),
	)
	return submission, nil
}
