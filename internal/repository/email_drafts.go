package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/intake-api/internal/entity"
)

// ErrEmailDraftNotFound is returned when no draft matches the given id.
var ErrEmailDraftNotFound = errors.New("email draft not found")

// EmailDraftsRepository describes persistence operations for generated email
// drafts. Drafts are written into the store by the external automation
// service; this system only reads them and flips their status.
type EmailDraftsRepository interface {
	List(ctx context.Context) ([]entity.EmailDraft, error)
	SetStatus(ctx context.Context, id string, status entity.EmailDraftStatus) error
}

// PGXEmailDraftsRepository implements EmailDraftsRepository using pgx.
type PGXEmailDraftsRepository struct {
	pool pgxPool
}

// NewPGXEmailDraftsRepository wires a pgx backed repository.
func NewPGXEmailDraftsRepository(pool *pgxpool.Pool) *PGXEmailDraftsRepository {
	return &PGXEmailDraftsRepository{pool: pool}
}

// List returns every generated draft ordered by creation date (desc). Each
// row carries the raw external document; normalization happens here so the
// rest of the system only ever sees the fixed entity shape.
func (r *PGXEmailDraftsRepository) List(ctx context.Context) ([]entity.EmailDraft, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, related_entity_id, status, created_at, doc
        FROM generated_emails
        ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list generated emails: %w", err)
	}
	defer rows.Close()

	return scanEmailDrafts(rows)
}

// SetStatus updates the draft status. Setting the same status again is not an
// error.
func (r *PGXEmailDraftsRepository) SetStatus(ctx context.Context, id string, status entity.EmailDraftStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE generated_emails SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set email status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmailDraftNotFound
	}
	return nil
}

func scanEmailDrafts(rows pgx.Rows) ([]entity.EmailDraft, error) {
	var drafts []entity.EmailDraft
	for rows.Next() {
		var (
			id        string
			relatedID sql.NullString
			status    string
			createdAt time.Time
			doc       []byte
		)
		if err := rows.Scan(&id, &relatedID, &status, &createdAt, &doc); err != nil {
			return nil, fmt.Errorf("scan generated email row: %w", err)
		}

		draft := normalizeDraftDocument(doc)
		draft.ID = id
		draft.Status = entity.EmailDraftStatus(status)
		draft.CreatedAt = createdAt
		if relatedID.Valid {
			draft.RelatedEntityID = relatedID.String
		}
		drafts = append(drafts, draft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generated emails: %w", err)
	}
	return drafts, nil
}

// Legacy field-name aliases accepted from external draft documents. The
// automation service has produced several generations of the document shape;
// every accepted alias is enumerated here and nowhere else.
var (
	businessNameAliases  = []string{"businessName", "BusinessName", "business_name", "name", "Name"}
	addressAliases       = []string{"address", "Address", "formatted_address"}
	businessEmailAliases = []string{"businessEmail", "BusinessEmail", "business_email", "email", "Email"}
	aiEmailAliases       = []string{"aiEmail", "AIEmail", "ai_email", "emailBody", "email_body"}
	mapLinkAliases       = []string{"mapLink", "MapLink", "map_link", "mapsLink", "maps_link", "googleMapsUrl"}
)

// normalizeDraftDocument maps a raw external document onto the fixed entity
// shape. Unknown keys are ignored. Multi-recipient comma-separated address
// values are reduced to the first address that looks deliverable.
func normalizeDraftDocument(doc []byte) entity.EmailDraft {
	var draft entity.EmailDraft
	if len(doc) == 0 {
		return draft
	}

	var fields map[string]any
	if err := json.Unmarshal(doc, &fields); err != nil {
		return draft
	}

	draft.BusinessName = firstString(fields, businessNameAliases)
	draft.Address = firstString(fields, addressAliases)
	draft.BusinessEmail = firstRecipient(firstString(fields, businessEmailAliases))
	draft.AIEmail = firstString(fields, aiEmailAliases)
	draft.MapLink = firstString(fields, mapLinkAliases)
	return draft
}

func firstString(fields map[string]any, aliases []string) string {
	for _, key := range aliases {
		if raw, ok := fields[key]; ok {
			if value, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(value); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}

func firstRecipient(value string) string {
	for _, part := range strings.Split(value, ",") {
		candidate := strings.TrimSpace(part)
		if strings.Contains(candidate, "@") {
			return candidate
		}
	}
	return ""
}
