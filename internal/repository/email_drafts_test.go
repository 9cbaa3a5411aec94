package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/octobees/intake-api/internal/entity"
)

func TestNormalizeDraftDocument_CanonicalKeys(t *testing.T) {
	doc := []byte(`{
		"businessName": "Acme Bakery",
		"address": "1 Main St, Austin",
		"businessEmail": "ops@acme.com",
		"aiEmail": "Hello Acme,\n\nWe noticed your bakery...",
		"mapLink": "https://maps.google.com/?cid=42"
	}`)

	draft := normalizeDraftDocument(doc)
	if draft.BusinessName != "Acme Bakery" || draft.Address != "1 Main St, Austin" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if draft.BusinessEmail != "ops@acme.com" {
		t.Fatalf("unexpected recipient: %q", draft.BusinessEmail)
	}
	if draft.MapLink != "https://maps.google.com/?cid=42" {
		t.Fatalf("unexpected map link: %q", draft.MapLink)
	}
}

func TestNormalizeDraftDocument_LegacyAliases(t *testing.T) {
	doc := []byte(`{
		"Name": "Acme Bakery",
		"formatted_address": "1 Main St",
		"Email": "info@acme.com",
		"email_body": "draft body",
		"maps_link": "https://maps.example.com"
	}`)

	draft := normalizeDraftDocument(doc)
	if draft.BusinessName != "Acme Bakery" {
		t.Fatalf("expected Name alias to map, got %+v", draft)
	}
	if draft.Address != "1 Main St" || draft.BusinessEmail != "info@acme.com" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if draft.AIEmail != "draft body" || draft.MapLink != "https://maps.example.com" {
		t.Fatalf("unexpected draft body/link: %+v", draft)
	}
}

func TestNormalizeDraftDocument_PrefersCanonicalOverAlias(t *testing.T) {
	doc := []byte(`{"businessName": "Canonical", "Name": "Legacy"}`)
	if draft := normalizeDraftDocument(doc); draft.BusinessName != "Canonical" {
		t.Fatalf("expected canonical key to win, got %q", draft.BusinessName)
	}
}

func TestNormalizeDraftDocument_Garbage(t *testing.T) {
	if draft := normalizeDraftDocument([]byte("not-json")); draft.BusinessName != "" {
		t.Fatalf("expected empty draft for invalid document")
	}
	if draft := normalizeDraftDocument(nil); draft.BusinessName != "" {
		t.Fatalf("expected empty draft for missing document")
	}
}

func TestFirstRecipient(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ops@example.com", "ops@example.com"},
		{"ops@example.com, sales@example.com", "ops@example.com"},
		{"n/a, sales@example.com", "sales@example.com"},
		{"no address here", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := firstRecipient(tc.in); got != tc.want {
			t.Fatalf("firstRecipient(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

type execStubPool struct {
	tag     pgconn.CommandTag
	execErr error
	lastSQL string
}

func (p *execStubPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.lastSQL = sql
	return p.tag, p.execErr
}

func (p *execStubPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (p *execStubPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func TestSetStatus_NotFound(t *testing.T) {
	repo := &PGXEmailDraftsRepository{pool: &execStubPool{tag: pgconn.NewCommandTag("UPDATE 0")}}
	err := repo.SetStatus(context.Background(), "missing", entity.EmailDraftSent)
	if !errors.Is(err, ErrEmailDraftNotFound) {
		t.Fatalf("expected ErrEmailDraftNotFound, got %v", err)
	}
}

func TestSetStatus_IdempotentRepeat(t *testing.T) {
	// A second "sent" write touches the same row again; rows affected stays 1
	// and the call must not error.
	pool := &execStubPool{tag: pgconn.NewCommandTag("UPDATE 1")}
	repo := &PGXEmailDraftsRepository{pool: pool}

	if err := repo.SetStatus(context.Background(), "place-42", entity.EmailDraftSent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.SetStatus(context.Background(), "place-42", entity.EmailDraftSent); err != nil {
		t.Fatalf("expected repeated sent update to succeed, got %v", err)
	}
}
