package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/miru/channelpulse-go/internal/domain"
	"github.com/miru/channelpulse-go/pkg/errors"
	"go.uber.org/zap"
)

// SnapshotStore persists one analysis report per channel per UTC calendar
// day. Running the pipeline twice in a day overwrites the day's row.
type SnapshotStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSnapshotStore(ps *PostgresService, logger *zap.Logger) *SnapshotStore {
	return &SnapshotStore{
		db:     ps.GetDB(),
		logger: logger,
	}
}

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS channel_snapshots (
	id           BIGSERIAL PRIMARY KEY,
	channel_id   TEXT NOT NULL,
	snapshot_day DATE NOT NULL,
	report       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (channel_id, snapshot_day)
);
CREATE INDEX IF NOT EXISTS idx_channel_snapshots_lookup
	ON channel_snapshots (channel_id, snapshot_day DESC);
`

// EnsureSchema creates the snapshot table when missing.
func (ss *SnapshotStore) EnsureSchema(ctx context.Context) error {
	if _, err := ss.db.ExecContext(ctx, snapshotSchema); err != nil {
		return errors.NewStoreError("failed to ensure snapshot schema", "ensure_schema", "", err)
	}
	return nil
}

// Upsert writes the report under today's UTC date for its channel.
func (ss *SnapshotStore) Upsert(ctx context.Context, report *domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return errors.NewStoreError("failed to marshal report", "upsert", report.Channel.ID, err)
	}

	day := report.GeneratedAt.UTC().Format("2006-01-02")

	const query = `
		INSERT INTO channel_snapshots (channel_id, snapshot_day, report)
		VALUES ($1, $2, $3)
		ON CONFLICT (channel_id, snapshot_day)
		DO UPDATE SET report = EXCLUDED.report, updated_at = now()`

	if _, err := ss.db.ExecContext(ctx, query, report.Channel.ID, day, payload); err != nil {
		return errors.NewStoreError("failed to upsert snapshot", "upsert", report.Channel.ID, err)
	}

	ss.logger.Info("Snapshot stored",
		zap.String("channel_id", report.Channel.ID),
		zap.String("day", day),
	)
	return nil
}

// Latest returns the most recent snapshot for the channel not older than
// maxAge, or nil when none qualifies.
func (ss *SnapshotStore) Latest(ctx context.Context, channelID string, maxAge time.Duration) (*domain.Report, error) {
	const query = `
		SELECT report
		FROM channel_snapshots
		WHERE channel_id = $1 AND updated_at >= $2
		ORDER BY snapshot_day DESC
		LIMIT 1`

	cutoff := time.Now().UTC().Add(-maxAge)

	var payload []byte
	err := ss.db.QueryRowContext(ctx, query, channelID, cutoff).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStoreError("failed to read snapshot", "latest", channelID, err)
	}

	var report domain.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, errors.NewStoreError("failed to unmarshal snapshot", "latest", channelID, err)
	}

	return &report, nil
}
