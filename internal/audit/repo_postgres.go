package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo appends events to auth_audit_events.
// Grant the application role INSERT only on that table.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO auth_audit_events (id, type, user_id, username, ip_address, request_id, message, created_at)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		string(e.Type),
		e.UserID,
		e.Username,
		e.IPAddress,
		e.RequestID,
		e.Message,
		e.CreatedAt,
	)
	return err
}
