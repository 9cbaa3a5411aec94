package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/intake-api/internal/dto"
	"github.com/octobees/intake-api/internal/entity"
	"github.com/octobees/intake-api/internal/repository"
	"github.com/octobees/intake-api/internal/webhook"
)

type submissionsRepoStub struct {
	created   []entity.Submission
	updated   map[uuid.UUID]entity.SubmissionStatus
	enriched  map[uuid.UUID]json.RawMessage
	known     map[uuid.UUID]bool
	createErr error
}

func newSubmissionsRepoStub() *submissionsRepoStub {
	return &submissionsRepoStub{
		updated:  make(map[uuid.UUID]entity.SubmissionStatus),
		enriched: make(map[uuid.UUID]json.RawMessage),
		known:    make(map[uuid.UUID]bool),
	}
}

func (s *submissionsRepoStub) Create(ctx context.Context, businessType, city, province, country string) (*entity.Submission, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	now := time.Now()
	sub := entity.Submission{
		ID:           uuid.New(),
		BusinessType: businessType,
		City:         city,
		Province:     province,
		Country:      country,
		Status:       entity.SubmissionPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.created = append(s.created, sub)
	s.known[sub.ID] = true
	return &sub, nil
}

func (s *submissionsRepoStub) List(ctx context.Context) ([]entity.Submission, error) {
	return s.created, nil
}

func (s *submissionsRepoStub) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubmissionStatus) (*entity.Submission, error) {
	if !s.known[id] {
		return nil, repository.ErrSubmissionNotFound
	}
	s.updated[id] = status
	return &entity.Submission{ID: id, Status: status, UpdatedAt: time.Now()}, nil
}

func (s *submissionsRepoStub) ApplyEnrichment(ctx context.Context, id uuid.UUID, data json.RawMessage) (*entity.Submission, error) {
	if !s.known[id] {
		return nil, repository.ErrSubmissionNotFound
	}
	s.enriched[id] = data
	return &entity.Submission{ID: id, Status: entity.SubmissionPending, EnrichedData: data}, nil
}

type forwarderStub struct {
	forwarded []*entity.Submission
	err       error
}

func (f *forwarderStub) Forward(ctx context.Context, submission *entity.Submission) error {
	if f.err != nil {
		return f.err
	}
	f.forwarded = append(f.forwarded, submission)
	return nil
}

func validSubmit() dto.SubmitRequest {
	return dto.SubmitRequest{BusinessType: "Bakery", City: "Austin", Province: "TX", Country: "USA"}
}

func TestIntakeService_Submit_Success(t *testing.T) {
	repo := newSubmissionsRepoStub()
	forwarder := &forwarderStub{}
	svc := NewIntakeService(repo, forwarder, nil)

	sub, err := svc.Submit(context.Background(), validSubmit())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected exactly one persisted record, got %d", len(repo.created))
	}
	if sub.Status != entity.SubmissionPending {
		t.Fatalf("expected pending status, got %s", sub.Status)
	}
	if !sub.CreatedAt.Equal(sub.UpdatedAt) {
		t.Fatalf("expected created_at == updated_at on fresh submission")
	}
	if len(forwarder.forwarded) != 1 || forwarder.forwarded[0].ID != sub.ID {
		t.Fatalf("expected persisted submission forwarded with its id")
	}
}

func TestIntakeService_Submit_ValidationFailureWritesNothing(t *testing.T) {
	repo := newSubmissionsRepoStub()
	svc := NewIntakeService(repo, &forwarderStub{}, nil)

	_, err := svc.Submit(context.Background(), dto.SubmitRequest{BusinessType: "B"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no partial write, got %d records", len(repo.created))
	}
}

func TestIntakeService_Submit_WebhookFailureKeepsRecord(t *testing.T) {
	repo := newSubmissionsRepoStub()
	forwarder := &forwarderStub{err: webhook.ErrUnavailable}
	svc := NewIntakeService(repo, forwarder, nil)

	_, err := svc.Submit(context.Background(), validSubmit())
	if !errors.Is(err, webhook.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("submission must remain persisted after webhook failure")
	}
}

func TestIntakeService_Submit_PersistenceFailure(t *testing.T) {
	repo := newSubmissionsRepoStub()
	repo.createErr = errors.New("pool exhausted")
	forwarder := &forwarderStub{}
	svc := NewIntakeService(repo, forwarder, nil)

	if _, err := svc.Submit(context.Background(), validSubmit()); err == nil {
		t.Fatalf("expected error when persistence fails")
	}
	if len(forwarder.forwarded) != 0 {
		t.Fatalf("nothing may be forwarded when persistence fails")
	}
}

func TestIntakeService_UpdateStatus(t *testing.T) {
	repo := newSubmissionsRepoStub()
	svc := NewIntakeService(repo, &forwarderStub{}, nil)

	sub, _ := svc.Submit(context.Background(), validSubmit())

	updated, err := svc.UpdateStatus(context.Background(), sub.ID.String(), "approved")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != entity.SubmissionApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}

	// out-of-enum status leaves the record untouched
	if _, err := svc.UpdateStatus(context.Background(), sub.ID.String(), "archived"); err == nil {
		t.Fatalf("expected validation error for unknown status")
	}
	if repo.updated[sub.ID] != entity.SubmissionApproved {
		t.Fatalf("stored status must be unchanged after rejected update")
	}

	// unknown and malformed ids surface as not found
	if _, err := svc.UpdateStatus(context.Background(), uuid.NewString(), "approved"); !errors.Is(err, repository.ErrSubmissionNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), "not-a-uuid", "approved"); !errors.Is(err, repository.ErrSubmissionNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
}

func TestIntakeService_ApplyEnrichment(t *testing.T) {
	repo := newSubmissionsRepoStub()
	svc := NewIntakeService(repo, &forwarderStub{}, nil)

	sub, _ := svc.Submit(context.Background(), validSubmit())

	updated, err := svc.ApplyEnrichment(context.Background(), dto.EnrichmentCallbackRequest{
		SubmissionID: sub.ID.String(),
		EnrichedData: dto.EnrichedData{Name: "Acme Bakery", Website: "acme.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var stored map[string]any
	if err := json.Unmarshal(updated.EnrichedData, &stored); err != nil {
		t.Fatalf("expected valid json document: %v", err)
	}
	if stored["name"] != "Acme Bakery" || stored["website"] != "https://acme.com" {
		t.Fatalf("unexpected enrichment document: %v", stored)
	}

	if _, err := svc.ApplyEnrichment(context.Background(), dto.EnrichmentCallbackRequest{
		SubmissionID: uuid.NewString(),
	}); !errors.Is(err, repository.ErrSubmissionNotFound) {
		t.Fatalf("expected not found for unknown submission, got %v", err)
	}
}
