package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/whenbot/whenbot/store"
)

func (d *DB) UpsertUserTimezone(ctx context.Context, upsert *store.UpsertUserTimezone) (*store.UserTimezone, error) {
	now := time.Now().Unix()

	stmt := `INSERT INTO user_timezone (user_id, timezone, created_ts, updated_ts)
		VALUES (` + placeholder(1) + `, ` + placeholder(2) + `, ` + placeholder(3) + `, ` + placeholder(4) + `)
		ON CONFLICT (user_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			updated_ts = EXCLUDED.updated_ts
		RETURNING user_id, timezone, created_ts, updated_ts`

	result := &store.UserTimezone{}
	err := d.db.QueryRowContext(ctx, stmt, upsert.UserID, upsert.Timezone, now, now).Scan(
		&result.UserID,
		&result.Timezone,
		&result.CreatedTs,
		&result.UpdatedTs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert user_timezone")
	}
	return result, nil
}

func (d *DB) GetUserTimezone(ctx context.Context, find *store.FindUserTimezone) (*store.UserTimezone, error) {
	if find.UserID == nil {
		return nil, errors.New("user_id is required")
	}

	query := `SELECT user_id, timezone, created_ts, updated_ts FROM user_timezone WHERE user_id = ` + placeholder(1)

	result := &store.UserTimezone{}
	err := d.db.QueryRowContext(ctx, query, *find.UserID).Scan(
		&result.UserID,
		&result.Timezone,
		&result.CreatedTs,
		&result.UpdatedTs,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get user_timezone")
	}
	return result, nil
}

func (d *DB) DeleteUserTimezone(ctx context.Context, delete *store.DeleteUserTimezone) error {
	stmt := `DELETE FROM user_timezone WHERE user_id = ` + placeholder(1)
	if _, err := d.db.ExecContext(ctx, stmt, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete user_timezone")
	}
	return nil
}
