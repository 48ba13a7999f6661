package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"invoicer/internal/port"
)

type hsnRepo struct {
	db *sqlx.DB
}

func NewHSNRepo(db *sqlx.DB) port.HSNRepository {
	return &hsnRepo{db: db}
}

// LoadEffective returns the master rows in force on the given day. Rate
// revisions are stored as new rows with their own effective range.
func (r *hsnRepo) LoadEffective(ctx context.Context, on time.Time) ([]port.HSNEntry, error) {
	var entries []port.HSNEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT code, description, gst_rate, condition_desc
		FROM hsn_codes
		WHERE effective_from <= $1::date
		  AND (effective_to IS NULL OR effective_to >= $1::date)
		ORDER BY code, gst_rate`, on.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("hsnRepo.LoadEffective: %w", err)
	}
	return entries, nil
}
