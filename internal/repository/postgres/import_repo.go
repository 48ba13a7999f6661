package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoicer/internal/domain"
	"invoicer/internal/port"
)

type importRepo struct {
	db *sqlx.DB
}

// NewImportRepo creates a new PostgreSQL-backed ImportRepository.
func NewImportRepo(db *sqlx.DB) port.ImportRepository {
	return &importRepo{db: db}
}

func (r *importRepo) Create(ctx context.Context, batch *domain.ImportBatch) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	batch.CreatedAt = time.Now().UTC()

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO import_batches (
			id, file_name, source_type, grouping_mode, s3_bucket, s3_key,
			row_count, invoice_count, skipped_count, created_at
		) VALUES (
			:id, :file_name, :source_type, :grouping_mode, :s3_bucket, :s3_key,
			:row_count, :invoice_count, :skipped_count, :created_at
		)`, batch)
	if err != nil {
		return fmt.Errorf("importRepo.Create: %w", err)
	}
	return nil
}

func (r *importRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportBatch, error) {
	var batch domain.ImportBatch
	err := r.db.GetContext(ctx, &batch, "SELECT * FROM import_batches WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("importRepo.GetByID: %w", err)
	}
	return &batch, nil
}

func (r *importRepo) List(ctx context.Context, offset, limit int) ([]domain.ImportBatch, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM import_batches"); err != nil {
		return nil, 0, fmt.Errorf("importRepo.List count: %w", err)
	}

	var batches []domain.ImportBatch
	err := r.db.SelectContext(ctx, &batches,
		"SELECT * FROM import_batches ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("importRepo.List: %w", err)
	}
	return batches, total, nil
}

func (r *importRepo) UpdateCounts(ctx context.Context, id uuid.UUID, invoiceCount, skippedCount int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE import_batches SET invoice_count = $2, skipped_count = $3 WHERE id = $1",
		id, invoiceCount, skippedCount)
	if err != nil {
		return fmt.Errorf("importRepo.UpdateCounts: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
