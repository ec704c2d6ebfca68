package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jmoiron/sqlx"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/models"
)

const (
	pgUniqueViolation = "23505"
	pgDuplicateTable  = "42P07"
	pgDuplicateSchema = "42P06"
)

// PostgresPendingRepo persists pending transactions in a Postgres table
type PostgresPendingRepo struct {
	db     *sqlx.DB
	schema string
	table  string
}

// NewPostgresPendingRepo creates a repository for schema.table. Blank names
// fall back to public.pending_transactions.
func NewPostgresPendingRepo(db *sqlx.DB, schema, table string) *PostgresPendingRepo {
	if strings.TrimSpace(schema) == "" {
		schema = "public"
	}
	if strings.TrimSpace(table) == "" {
		table = "pending_transactions"
	}
	return &PostgresPendingRepo{db: db, schema: schema, table: table}
}

func (r *PostgresPendingRepo) qualifiedTable() string {
	return pgx.Identifier{r.schema, r.table}.Sanitize()
}

// EnsureSchema creates the schema, table and case-insensitive unique index if missing
func (r *PostgresPendingRepo) EnsureSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, pgx.Identifier{r.schema}.Sanitize()),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			transaction_id TEXT NOT NULL,
			client_reference TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`, r.qualifiedTable()),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s ((lower(transaction_id)))`,
			pgx.Identifier{r.table + "_transaction_id_lower_idx"}.Sanitize(), r.qualifiedTable()),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (created_at)`,
			pgx.Identifier{r.table + "_created_at_idx"}.Sanitize(), r.qualifiedTable()),
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			// IF NOT EXISTS still races when several instances start together
			if isAlreadyExists(err) {
				continue
			}
			return fmt.Errorf("failed to ensure pending transactions schema: %w", err)
		}
	}

	logger.Info("Pending transactions table ready", logger.String("table", r.qualifiedTable()))
	return nil
}

func isAlreadyExists(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgUniqueViolation, pgDuplicateTable, pgDuplicateSchema:
		return true
	}
	return false
}

// Add inserts the transaction, leaving an existing row untouched
func (r *PostgresPendingRepo) Add(ctx context.Context, transactionID, clientReference string, createdAt time.Time) error {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (transaction_id, client_reference, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT ((lower(transaction_id))) DO NOTHING`, r.qualifiedTable())

	if _, err := r.db.ExecContext(ctx, query, transactionID, clientReference, createdAt.UTC()); err != nil {
		return fmt.Errorf("failed to add pending transaction: %w", err)
	}
	return nil
}

func (r *PostgresPendingRepo) Remove(ctx context.Context, transactionID string) error {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE lower(transaction_id) = lower($1)`, r.qualifiedTable())
	if _, err := r.db.ExecContext(ctx, query, transactionID); err != nil {
		return fmt.Errorf("failed to remove pending transaction: %w", err)
	}
	return nil
}

func (r *PostgresPendingRepo) GetAll(ctx context.Context) ([]models.PendingTransaction, error) {
	query := fmt.Sprintf(`SELECT transaction_id, client_reference, created_at
		FROM %s ORDER BY created_at ASC, transaction_id ASC`, r.qualifiedTable())

	pending := make([]models.PendingTransaction, 0)
	if err := r.db.SelectContext(ctx, &pending, query); err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	return pending, nil
}

func (r *PostgresPendingRepo) RemoveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE created_at < $1`, r.qualifiedTable())

	result, err := r.db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to remove stale pending transactions: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed, nil
}
