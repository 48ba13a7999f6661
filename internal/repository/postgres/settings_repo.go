package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"invoicer/internal/domain"
	"invoicer/internal/port"
)

// settingsID is the primary key of the single settings row.
const settingsID = 1

type settingsRow struct {
	Business   json.RawMessage `db:"business"`
	Numbering  json.RawMessage `db:"numbering"`
	DefaultHSN string          `db:"default_hsn"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

type settingsRepo struct {
	db *sqlx.DB
}

// NewSettingsRepo creates a new PostgreSQL-backed SettingsRepository.
func NewSettingsRepo(db *sqlx.DB) port.SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	var row settingsRow
	err := r.db.GetContext(ctx, &row,
		"SELECT business, numbering, default_hsn, updated_at FROM settings WHERE id = $1", settingsID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("settingsRepo.Get: %w", err)
	}

	s := &domain.Settings{DefaultHSN: row.DefaultHSN, UpdatedAt: row.UpdatedAt}
	if err := json.Unmarshal(row.Business, &s.Business); err != nil {
		return nil, fmt.Errorf("settingsRepo.Get business: %w", err)
	}
	if err := json.Unmarshal(row.Numbering, &s.Numbering); err != nil {
		return nil, fmt.Errorf("settingsRepo.Get numbering: %w", err)
	}
	return s, nil
}

func (r *settingsRepo) Save(ctx context.Context, s *domain.Settings) error {
	business, err := json.Marshal(s.Business)
	if err != nil {
		return fmt.Errorf("settingsRepo.Save business: %w", err)
	}
	numbering, err := json.Marshal(s.Numbering)
	if err != nil {
		return fmt.Errorf("settingsRepo.Save numbering: %w", err)
	}
	s.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO settings (id, business, numbering, default_hsn, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
			business = EXCLUDED.business,
			numbering = EXCLUDED.numbering,
			default_hsn = EXCLUDED.default_hsn,
			updated_at = EXCLUDED.updated_at`,
		settingsID, business, numbering, s.DefaultHSN, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("settingsRepo.Save: %w", err)
	}
	return nil
}

func (r *settingsRepo) AdvanceCounter(ctx context.Context, next int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE settings
		 SET numbering = jsonb_set(numbering, '{next_number}', to_jsonb($1::bigint)),
			 updated_at = $2
		 WHERE id = $3 AND COALESCE((numbering->>'next_number')::bigint, 0) < $1`,
		next, time.Now().UTC(), settingsID)
	if err != nil {
		return fmt.Errorf("settingsRepo.AdvanceCounter: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM settings WHERE id = $1)", settingsID); err != nil {
			return fmt.Errorf("settingsRepo.AdvanceCounter exists: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
	}
	return nil
}
