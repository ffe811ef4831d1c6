package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"

	"isucari/app"
)

type PgRepository struct {
	db *sqlx.DB
}

func NewPgRepository(dsn string) *PgRepository {
	db := sqlx.MustConnect("postgres", dsn)

	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PgRepository{db: db}
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Conn pins one pooled connection. The returned repository must be closed to
// hand the connection back to the pool.
func (r *PgRepository) Conn(ctx context.Context) (app.Repository, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	return &PgConn{conn: conn}, nil
}

func (r *PgRepository) Stats() sql.DBStats {
	return r.db.Stats()
}
