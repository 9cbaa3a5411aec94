package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/octobees/intake-api/internal/dto"
	"github.com/octobees/intake-api/internal/entity"
	"github.com/octobees/intake-api/internal/mailer"
	"github.com/octobees/intake-api/internal/repository"
)

// DispatchService delivers reviewed email drafts through the transactional
// email provider and records the outcome.
type DispatchService struct {
	drafts repository.EmailDraftsRepository
	sender mailer.Sender
	log    *zap.Logger
}

// NewDispatchService wires a new DispatchService instance.
func NewDispatchService(drafts repository.EmailDraftsRepository, sender mailer.Sender, log *zap.Logger) *DispatchService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DispatchService{drafts: drafts, sender: sender, log: log}
}

// ListDrafts returns all generated drafts, newest first.
func (s *DispatchService) ListDrafts(ctx context.Context) ([]entity.EmailDraft, error) {
	return s.drafts.List(ctx)
}

// Send validates the request, calls the provider with the supplied recipient
// (the service trusts it; it is not re-derived from the draft), and marks the
// draft sent on success. The store-side status update is what surfaces an
// unknown draft id. On provider failure the stored status is left untouched
// so the operator may retry.
func (s *DispatchService) Send(ctx context.Context, req dto.SendEmailRequest) (string, error) {
	req, err := ValidateSendEmailRequest(req)
	if err != nil {
		return "", err
	}

	msg := mailer.Message{
		To:      req.RecipientEmail,
		Subject: req.Subject,
		Text:    req.Body,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Warn("email dispatch failed",
			zap.String("email_id", req.EmailID),
			zap.Error(err),
		)
		return "", err
	}

	if err := s.drafts.SetStatus(ctx, req.EmailID, entity.EmailDraftSent); err != nil {
		return "", err
	}

	s.log.Info("email dispatched",
		zap.String("email_id", req.EmailID),
		zap.String("recipient", req.RecipientEmail),
	)
	return req.RecipientEmail, nil
}
