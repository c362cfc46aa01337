package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository interface {
	Save(ctx context.Context, r *Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (p *postgresRepo) Save(ctx context.Context, r *Record) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	symptoms := r.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}
	precautions := r.Precautions
	if precautions == nil {
		precautions = []string{}
	}

	query := `
		INSERT INTO predictions (id, session_id, symptoms, disease, description, precautions, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := p.db.ExecContext(ctx, query,
		r.ID, r.SessionID, pq.Array(symptoms), r.Disease, r.Description, pq.Array(precautions), r.Error, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("save prediction: %w", err)
	}
	return nil
}

func (p *postgresRepo) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT id, session_id, symptoms, disease, description, precautions, error, created_at
		FROM predictions ORDER BY created_at DESC LIMIT $1`

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.ID,
			&r.SessionID,
			pq.Array(&r.Symptoms),
			&r.Disease,
			&r.Description,
			pq.Array(&r.Precautions),
			&r.Error,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
