/*------------------------------------------------------------------------------
* postgres.go : relational archive backend
*
*          jmoiron/sqlx over lib/pq, storing one row per run plus a JSON
*          blob of the track's snaps/isotachs/quadrants, following sqlx's
*          own documented Connect/ExecContext/GetContext idiom directly
*          rather than inventing a bespoke access pattern.
*-----------------------------------------------------------------------------*/

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"gahm"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS gahm_runs (
	run_id           TEXT PRIMARY KEY,
	track_basin      TEXT NOT NULL,
	track_storm_id   INTEGER NOT NULL,
	loaded_at        TIMESTAMPTZ NOT NULL,
	preprocessed_at  TIMESTAMPTZ,
	config_snapshot  TEXT,
	snaps_json       JSONB NOT NULL
);`

// PostgresStore is the sqlx/lib-pq-backed RelationalStore.
type PostgresStore struct {
	db *sqlx.DB
}

// OpenPostgresStore connects to dsn and ensures the archive table exists.
func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres archive")
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating gahm_runs table")
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (p *PostgresStore) Close() error { return p.db.Close() }

type runRow struct {
	RunID          string         `db:"run_id"`
	TrackBasin     string         `db:"track_basin"`
	TrackStormID   int            `db:"track_storm_id"`
	LoadedAt       time.Time      `db:"loaded_at"`
	PreprocessedAt sql.NullTime   `db:"preprocessed_at"`
	ConfigSnapshot sql.NullString `db:"config_snapshot"`
	SnapsJSON      []byte         `db:"snaps_json"`
}

// SaveTrack upserts one run's metadata and serialized snaps.
func (p *PostgresStore) SaveTrack(ctx context.Context, runID string, pt *PreparedTrack) error {
	payload, err := json.Marshal(pt.Track.Snaps)
	if err != nil {
		return errors.Wrap(err, "marshaling track snaps")
	}
	row := runRow{
		RunID:        runID,
		TrackBasin:   pt.Run.TrackBasin,
		TrackStormID: pt.Run.TrackStormID,
		LoadedAt:     pt.Run.LoadedAt,
		PreprocessedAt: sql.NullTime{Time: pt.Run.PreprocessedAt, Valid: !pt.Run.PreprocessedAt.IsZero()},
		ConfigSnapshot: sql.NullString{String: pt.Run.ConfigSnapshot, Valid: pt.Run.ConfigSnapshot != ""},
		SnapsJSON:      payload,
	}
	_, err = p.db.NamedExecContext(ctx, `
		INSERT INTO gahm_runs (run_id, track_basin, track_storm_id, loaded_at, preprocessed_at, config_snapshot, snaps_json)
		VALUES (:run_id, :track_basin, :track_storm_id, :loaded_at, :preprocessed_at, :config_snapshot, :snaps_json)
		ON CONFLICT (run_id) DO UPDATE SET
			preprocessed_at = EXCLUDED.preprocessed_at,
			config_snapshot = EXCLUDED.config_snapshot,
			snaps_json = EXCLUDED.snaps_json`, row)
	if err != nil {
		return errors.Wrapf(err, "saving run %s", runID)
	}
	return nil
}

// LoadTrack fetches a previously saved run by ID.
func (p *PostgresStore) LoadTrack(ctx context.Context, runID string) (*PreparedTrack, error) {
	var row runRow
	if err := p.db.GetContext(ctx, &row, `SELECT * FROM gahm_runs WHERE run_id = $1`, runID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &gahm.UsageError{Msg: "no track archived under run id " + runID}
		}
		return nil, errors.Wrapf(err, "loading run %s", runID)
	}
	var snaps []*gahm.Snap
	if err := json.Unmarshal(row.SnapsJSON, &snaps); err != nil {
		return nil, errors.Wrap(err, "unmarshaling track snaps")
	}
	track := &gahm.Track{Snaps: snaps}
	track.MarkPreprocessed()
	return &PreparedTrack{
		Run: RunRecord{
			RunID:          row.RunID,
			TrackBasin:     row.TrackBasin,
			TrackStormID:   row.TrackStormID,
			LoadedAt:       row.LoadedAt,
			PreprocessedAt: row.PreprocessedAt.Time,
			ConfigSnapshot: row.ConfigSnapshot.String,
		},
		Track: track,
	}, nil
}
