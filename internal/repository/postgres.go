package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"fortnite-stats-bot/internal/model"
)

const savedSearchesTable = "saved_searches"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresStore persists saved searches in PostgreSQL.
// Insertion order is the serial id order.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save inserts q, relying on the unique key to drop duplicates.
func (s *PostgresStore) Save(ctx context.Context, userID int64, q model.Query) (bool, error) {
	if !q.Valid() {
		return false, ErrInvalidQuery
	}

	sql, args, err := psql.Insert(savedSearchesTable).
		Columns("user_id", "username", "username_key", "account_type", "time_window", "match_type").
		Values(userID, q.Username, q.UsernameKey(), string(q.AccountType), string(q.TimeWindow), string(q.MatchType)).
		Suffix("ON CONFLICT (user_id, username_key, account_type, time_window, match_type) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build insert: %w", err)
	}

	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("failed to save search: %w", err)
	}
	saved := tag.RowsAffected() == 1

	log.Debug().
		Int64("user_id", userID).
		Bool("saved", saved).
		Msg("Saved search insert")

	return saved, nil
}

// List returns the user's searches ordered by insertion.
func (s *PostgresStore) List(ctx context.Context, userID int64) ([]model.Query, error) {
	sql, args, err := psql.Select("id", "user_id", "username", "username_key", "account_type", "time_window", "match_type", "created_at").
		From(savedSearchesTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	saved, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.SavedSearch])
	if err != nil {
		return nil, fmt.Errorf("failed to scan searches: %w", err)
	}

	out := make([]model.Query, 0, len(saved))
	for _, row := range saved {
		out = append(out, row.Query())
	}
	return out, nil
}

// RemoveAt deletes the entry at the zero-based index within one transaction.
func (s *PostgresStore) RemoveAt(ctx context.Context, userID int64, index int) (model.Query, error) {
	if index < 0 {
		return model.Query{}, ErrOutOfRange
	}

	var removed model.Query
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		sql, args, err := psql.Select("id").
			From(savedSearchesTable).
			Where(squirrel.Eq{"user_id": userID}).
			OrderBy("id ASC").
			Offset(uint64(index)).
			Limit(1).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build select: %w", err)
		}

		var id int64
		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOutOfRange
			}
			return fmt.Errorf("failed to locate search: %w", err)
		}

		sql, args, err = psql.Delete(savedSearchesTable).
			Where(squirrel.Eq{"id": id}).
			Suffix("RETURNING username, account_type, time_window, match_type").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete: %w", err)
		}

		var account, window, match string
		if err := tx.QueryRow(ctx, sql, args...).Scan(&removed.Username, &account, &window, &match); err != nil {
			return fmt.Errorf("failed to delete search: %w", err)
		}
		removed.AccountType = model.AccountType(account)
		removed.TimeWindow = model.TimeWindow(window)
		removed.MatchType = model.MatchType(match)
		return nil
	})
	if err != nil {
		return model.Query{}, err
	}
	return removed, nil
}

// Contains checks the unique key for q.
func (s *PostgresStore) Contains(ctx context.Context, userID int64, q model.Query) (bool, error) {
	sql, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From(savedSearchesTable).
		Where(squirrel.Eq{
			"user_id":      userID,
			"username_key": q.UsernameKey(),
			"account_type": string(q.AccountType),
			"time_window":  string(q.TimeWindow),
			"match_type":   string(q.MatchType),
		}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists: %w", err)
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check search: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
