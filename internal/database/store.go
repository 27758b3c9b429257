package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/autoreply/internal/mail"
)

// Limits applied by GetRecentDecisions.
const (
	DefaultDecisionLimit = 20
	MaxDecisionLimit     = 100
)

// Store defines the decision journal operations.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveDecision inserts a decision and sets its ID.
	SaveDecision(ctx context.Context, d *Decision) error

	// GetRecentDecisions returns the newest decisions, optionally filtered by
	// status. An empty status matches all.
	GetRecentDecisions(ctx context.Context, status mail.Status, limit int) ([]Decision, error)

	// CountDecisionsByStatus returns the number of decisions per status.
	CountDecisionsByStatus(ctx context.Context) (map[mail.Status]int, error)

	// DeleteDecisionsBefore removes decisions made before cutoff.
	DeleteDecisionsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveDecision(ctx context.Context, d *Decision) error {
	if d == nil {
		return fmt.Errorf("cannot save nil decision")
	}
	if d.MessageID == "" {
		return fmt.Errorf("decision must have a message id")
	}
	if !d.Status.IsTerminal() {
		return fmt.Errorf("decision %s has status %q: %w", d.MessageID, d.Status, mail.ErrNotTerminal)
	}
	if d.DecidedAt.IsZero() {
		return fmt.Errorf("decision %s must have a decision time", d.MessageID)
	}

	query := `
        INSERT INTO decisions (message_id, sender, subject, body, status, reply_text, reason, received_at, decided_at)
        VALUES (:message_id, :sender, :subject, :body, :status, :reply_text, :reason, :received_at, :decided_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, d)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving decision", "message_id", d.MessageID, "error", err)
		return fmt.Errorf("failed to save decision for message %s: %w", d.MessageID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get decision id: %w", err)
	}
	d.ID = id

	s.logger.DebugContext(ctx, "Decision saved", "id", id, "message_id", d.MessageID, "status", d.Status)
	return nil
}

func (s *sqlxStore) GetRecentDecisions(ctx context.Context, status mail.Status, limit int) ([]Decision, error) {
	if limit <= 0 {
		limit = DefaultDecisionLimit
	} else if limit > MaxDecisionLimit {
		limit = MaxDecisionLimit
	}
	if status != "" {
		if _, err := mail.ParseStatus(string(status)); err != nil {
			return nil, err
		}
	}

	query := `
        SELECT id, message_id, sender, subject, body, status, reply_text, reason, received_at, decided_at
        FROM decisions
        WHERE (? = '' OR status = ?)
        ORDER BY decided_at DESC, id DESC
        LIMIT ?;
    `

	decisions := []Decision{}
	err := s.db.SelectContext(ctx, &decisions, query, status, status, limit)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching decisions", "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting recent decisions", "status", status, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get recent decisions: %w", err)
	}
	return decisions, nil
}

func (s *sqlxStore) CountDecisionsByStatus(ctx context.Context) (map[mail.Status]int, error) {
	var rows []struct {
		Status mail.Status `db:"status"`
		Count  int         `db:"count"`
	}
	query := `SELECT status, COUNT(*) AS count FROM decisions GROUP BY status;`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count decisions: %w", err)
	}

	counts := make(map[mail.Status]int, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (s *sqlxStore) DeleteDecisionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM decisions WHERE decided_at < ?;`, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting old decisions", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to delete decisions before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted decisions: %w", err)
	}
	s.logger.DebugContext(ctx, "Deleted old decisions", "count", n, "cutoff", cutoff)
	return n, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
