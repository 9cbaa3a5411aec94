package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/intake-api/internal/entity"
)

// ErrSubmissionNotFound is returned when no submission matches the given id.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionsRepository describes persistence operations for intake submissions.
type SubmissionsRepository interface {
	Create(ctx context.Context, businessType, city, province, country string) (*entity.Submission, error)
	List(ctx context.Context) ([]entity.Submission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubmissionStatus) (*entity.Submission, error)
	ApplyEnrichment(ctx context.Context, id uuid.UUID, data json.RawMessage) (*entity.Submission, error)
}

// PGXSubmissionsRepository implements SubmissionsRepository using pgx.
type PGXSubmissionsRepository struct {
	pool pgxPool
}

// NewPGXSubmissionsRepository wires a pgx backed repository.
func NewPGXSubmissionsRepository(pool *pgxpool.Pool) *PGXSubmissionsRepository {
	return &PGXSubmissionsRepository{pool: pool}
}

const submissionColumns = `id, business_type, city, province, country, status, enriched_data, created_at, updated_at`

// Create persists a new submission with status pending. created_at and
// updated_at are assigned in the same statement so they start out equal.
func (r *PGXSubmissionsRepository) Create(ctx context.Context, businessType, city, province, country string) (*entity.Submission, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO submissions (id, business_type, city, province, country, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING `+submissionColumns,
		uuid.New(), businessType, city, province, country, entity.SubmissionPending,
	)

	sub, err := scanSubmission(row)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	return sub, nil
}

// List returns every submission ordered by creation date (desc).
func (r *PGXSubmissionsRepository) List(ctx context.Context) ([]entity.Submission, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []entity.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission row: %w", err)
		}
		submissions = append(submissions, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return submissions, nil
}

// UpdateStatus sets the review status and refreshes updated_at.
func (r *PGXSubmissionsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubmissionStatus) (*entity.Submission, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE submissions
        SET status = $2, updated_at = clock_timestamp()
        WHERE id = $1
        RETURNING `+submissionColumns,
		id, status,
	)

	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("update submission status: %w", err)
	}
	return sub, nil
}

// ApplyEnrichment merges the enrichment document onto the stored one and
// refreshes updated_at. The merge is a single-document jsonb update; last
// writer wins.
func (r *PGXSubmissionsRepository) ApplyEnrichment(ctx context.Context, id uuid.UUID, data json.RawMessage) (*entity.Submission, error) {
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}

	row := r.pool.QueryRow(ctx, `
        UPDATE submissions
        SET enriched_data = COALESCE(enriched_data, '{}'::jsonb) || $2::jsonb,
            updated_at = clock_timestamp()
        WHERE id = $1
        RETURNING `+submissionColumns,
		id, string(data),
	)

	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("apply enrichment: %w", err)
	}
	return sub, nil
}

func scanSubmission(row pgx.Row) (*entity.Submission, error) {
	var (
		sub      entity.Submission
		status   string
		enriched []byte
	)

	err := row.Scan(
		&sub.ID,
		&sub.BusinessType,
		&sub.City,
		&sub.Province,
		&sub.Country,
		&status,
		&enriched,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.Status = entity.SubmissionStatus(status)
	if len(enriched) > 0 {
		sub.EnrichedData = json.RawMessage(enriched)
	}
	return &sub, nil
}
