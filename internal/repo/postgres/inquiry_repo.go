package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/luxury-stays/internal/domain"
)

type InquiryRepo interface {
	Create(ctx context.Context, in *domain.Inquiry) (*domain.Inquiry, error)
	GetByID(ctx context.Context, id string) (*domain.Inquiry, error)
	ListRecent(ctx context.Context, kind domain.InquiryKind, limit int) ([]domain.Inquiry, error)
}

type InquiryRepoImpl struct{ pool *pgxpool.Pool }

func NewInquiryRepo(pool *pgxpool.Pool) *InquiryRepoImpl { return &InquiryRepoImpl{pool: pool} }

const inquirySchema = `
CREATE TABLE IF NOT EXISTS inquiries (
  id               UUID PRIMARY KEY,
  kind             TEXT NOT NULL,
  name             TEXT NOT NULL,
  email            TEXT NOT NULL,
  phone            TEXT NOT NULL DEFAULT '',
  subject          TEXT NOT NULL DEFAULT '',
  message          TEXT NOT NULL,
  property_address TEXT NOT NULL DEFAULT '',
  bedrooms         INT  NOT NULL DEFAULT 0,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS inquiries_kind_created_idx ON inquiries (kind, created_at DESC);`

// EnsureSchema creates the inquiries table when it is missing.
func (r *InquiryRepoImpl) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := r.pool.Exec(ctx, inquirySchema)
	return err
}

const inquiryCols = `id::text, kind, name, email, phone, subject, message, property_address, bedrooms, created_at`

func scanInquiry(row pgx.Row) (*domain.Inquiry, error) {
	var (
		in   domain.Inquiry
		kind string
	)
	err := row.Scan(&in.ID, &kind, &in.Name, &in.Email, &in.Phone, &in.Subject,
		&in.Message, &in.PropertyAddress, &in.Bedrooms, &in.CreatedAt)
	if err != nil {
		return nil, err
	}
	in.Kind = domain.InquiryKind(kind)
	return &in, nil
}

func (r *InquiryRepoImpl) Create(ctx context.Context, in *domain.Inquiry) (*domain.Inquiry, error) {
	const q = `INSERT INTO inquiries (
    id, kind, name, email, phone, subject, message, property_address, bedrooms
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  RETURNING ` + inquiryCols

	id := uuid.New()
	if in.ID != "" {
		if parsed, err := uuid.Parse(in.ID); err == nil {
			id = parsed
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanInquiry(r.pool.QueryRow(ctx, q, id.String(), string(in.Kind),
		in.Name, in.Email, in.Phone, in.Subject, in.Message,
		in.PropertyAddress, in.Bedrooms,
	))
}

func (r *InquiryRepoImpl) GetByID(ctx context.Context, id string) (*domain.Inquiry, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	const q = `SELECT ` + inquiryCols + ` FROM inquiries WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	in, err := scanInquiry(r.pool.QueryRow(ctx, q, uid.String()))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return in, err
}

func (r *InquiryRepoImpl) ListRecent(ctx context.Context, kind domain.InquiryKind, limit int) ([]domain.Inquiry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	const q = `SELECT ` + inquiryCols + ` FROM inquiries WHERE kind=$1 ORDER BY created_at DESC LIMIT $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, string(kind), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Inquiry
	for rows.Next() {
		in, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

func (r *InquiryRepoImpl) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var _ InquiryRepo = (*InquiryRepoImpl)(nil)
