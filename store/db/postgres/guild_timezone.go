package postgres

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/whenbot/whenbot/store"
)

func (d *DB) UpsertGuildTimezone(ctx context.Context, upsert *store.UpsertGuildTimezone) (*store.GuildTimezone, error) {
	now := time.Now().Unix()

	stmt := `INSERT INTO guild_timezone (guild_id, display_name, timezone, created_ts)
		VALUES (` + placeholder(1) + `, ` + placeholder(2) + `, ` + placeholder(3) + `, ` + placeholder(4) + `)
		ON CONFLICT (guild_id, display_name) DO UPDATE SET
			timezone = EXCLUDED.timezone
		RETURNING guild_id, display_name, timezone, created_ts`

	result := &store.GuildTimezone{}
	err := d.db.QueryRowContext(ctx, stmt, upsert.GuildID, upsert.DisplayName, upsert.Timezone, now).Scan(
		&result.GuildID,
		&result.DisplayName,
		&result.Timezone,
		&result.CreatedTs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert guild_timezone")
	}
	return result, nil
}

func (d *DB) ListGuildTimezones(ctx context.Context, find *store.FindGuildTimezone) ([]*store.GuildTimezone, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.GuildID != nil {
		where, args = append(where, "guild_id = "+placeholder(len(args)+1)), append(args, *find.GuildID)
	}
	if find.DisplayName != nil {
		where, args = append(where, "display_name = "+placeholder(len(args)+1)), append(args, *find.DisplayName)
	}

	query := `SELECT guild_id, display_name, timezone, created_ts FROM guild_timezone
		WHERE ` + joinAnd(where) + ` ORDER BY created_ts, display_name`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list guild_timezone")
	}
	defer rows.Close()

	list := []*store.GuildTimezone{}
	for rows.Next() {
		gt := &store.GuildTimezone{}
		if err := rows.Scan(&gt.GuildID, &gt.DisplayName, &gt.Timezone, &gt.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan guild_timezone")
		}
		list = append(list, gt)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate guild_timezone")
	}
	return list, nil
}

func (d *DB) DeleteGuildTimezone(ctx context.Context, delete *store.DeleteGuildTimezone) error {
	var err error
	if delete.DisplayName != nil {
		_, err = d.db.ExecContext(ctx, `DELETE FROM guild_timezone WHERE guild_id = $1 AND display_name = $2`, delete.GuildID, *delete.DisplayName)
	} else {
		_, err = d.db.ExecContext(ctx, `DELETE FROM guild_timezone WHERE guild_id = $1`, delete.GuildID)
	}
	if err != nil {
		return errors.Wrap(err, "failed to delete guild_timezone")
	}
	return nil
}
