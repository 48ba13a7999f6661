package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"invoicer/internal/config"
)

const connectTimeout = 10 * time.Second

// NewDB opens the invoice database through the pgx driver and checks it is
// reachable before the server starts taking uploads.
func NewDB(ctx context.Context, cfg *config.DBConfig) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres at %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	return db, nil
}
