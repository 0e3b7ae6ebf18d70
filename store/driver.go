package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate creates the schema when it does not exist yet.
	Migrate(ctx context.Context) error

	// UserTimezone model related methods.
	UpsertUserTimezone(ctx context.Context, upsert *UpsertUserTimezone) (*UserTimezone, error)
	GetUserTimezone(ctx context.Context, find *FindUserTimezone) (*UserTimezone, error)
	DeleteUserTimezone(ctx context.Context, delete *DeleteUserTimezone) error

	// GuildTimezone model related methods.
	UpsertGuildTimezone(ctx context.Context, upsert *UpsertGuildTimezone) (*GuildTimezone, error)
	ListGuildTimezones(ctx context.Context, find *FindGuildTimezone) ([]*GuildTimezone, error)
	DeleteGuildTimezone(ctx context.Context, delete *DeleteGuildTimezone) error
}
