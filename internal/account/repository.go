package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"taskboard/pkg/utils"
)

// Repository is the persistence contract for accounts.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	// MarkEmailVerified sets email_verified_at once; later calls keep the first timestamp.
	MarkEmailVerified(ctx context.Context, username string, at time.Time) (Account, error)
}

// NOTE: PostgresRepository assumes the following table exists:
//
//	CREATE TABLE accounts (
//	  user_id           TEXT PRIMARY KEY,
//	  username          TEXT NOT NULL UNIQUE,
//	  email             TEXT NOT NULL,
//	  email_verified_at TIMESTAMPTZ NULL,
//	  created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectAccount = `
SELECT user_id, username, email, email_verified_at, created_at
FROM accounts
`

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount+`WHERE user_id = $1`, userID))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount+`WHERE username = $1`, username))
}

func (r *PostgresRepository) MarkEmailVerified(ctx context.Context, username string, at time.Time) (Account, error) {
	var out Account
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		// Lock the row so concurrent confirmations agree on the first timestamp.
		a, err := scanAccount(tx.QueryRowContext(ctx, selectAccount+`WHERE username = $1 FOR UPDATE`, username))
		if err != nil {
			return err
		}
		if a.EmailVerifiedAt == nil {
			const q = `UPDATE accounts SET email_verified_at = $2 WHERE username = $1`
			if _, err := tx.ExecContext(ctx, q, username, at); err != nil {
				return err
			}
			a.EmailVerifiedAt = &at
		}
		out = a
		return nil
	})
	if err != nil {
		return Account{}, err
	}
	return out, nil
}

func scanAccount(row *sql.Row) (Account, error) {
	var (
		a          Account
		verifiedAt sql.NullTime
	)
	if err := row.Scan(
		&a.UserID,
		&a.Username,
		&a.Email,
		&verifiedAt,
		&a.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		a.EmailVerifiedAt = &t
	}
	return a, nil
}
