// Package store wraps the database driver with caching and the guild list
// size policy.
package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/whenbot/whenbot/internal/profile"
	"github.com/whenbot/whenbot/store/cache"
)

// MaxGuildTimezones caps the display list per guild.
const MaxGuildTimezones = 5

// ErrGuildTimezoneLimit is returned when a guild's display list is full.
var ErrGuildTimezoneLimit = errors.Errorf("guild timezone list is full (max %d)", MaxGuildTimezones)

// Store provides database access to the application.
type Store struct {
	profile *profile.Profile
	driver  Driver

	userTzCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		profile: profile,
		driver:  driver,
		userTzCache: cache.New(cache.Config{
			DefaultTTL:      10 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			MaxItems:        10000,
		}),
	}
}

// Migrate applies the schema.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

// Close closes the database connection and stops the caches.
func (s *Store) Close() error {
	s.userTzCache.Close()
	return s.driver.Close()
}

// GetUserTimezone returns the stored timezone preference for a user, or nil
// when the user has none.
func (s *Store) GetUserTimezone(ctx context.Context, userID string) (*UserTimezone, error) {
	if v, ok := s.userTzCache.Get(userID); ok {
		return v.(*UserTimezone), nil
	}

	userTz, err := s.driver.GetUserTimezone(ctx, &FindUserTimezone{UserID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user timezone")
	}
	if userTz != nil {
		s.userTzCache.Set(userID, userTz)
	}
	return userTz, nil
}

// UpsertUserTimezone stores a user's timezone preference.
func (s *Store) UpsertUserTimezone(ctx context.Context, upsert *UpsertUserTimezone) (*UserTimezone, error) {
	userTz, err := s.driver.UpsertUserTimezone(ctx, upsert)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert user timezone")
	}
	s.userTzCache.Set(userTz.UserID, userTz)
	return userTz, nil
}

// DeleteUserTimezone removes a user's timezone preference.
func (s *Store) DeleteUserTimezone(ctx context.Context, delete *DeleteUserTimezone) error {
	if err := s.driver.DeleteUserTimezone(ctx, delete); err != nil {
		return errors.Wrap(err, "failed to delete user timezone")
	}
	s.userTzCache.Delete(delete.UserID)
	return nil
}

// ListGuildTimezones returns a guild's display list ordered by creation time.
func (s *Store) ListGuildTimezones(ctx context.Context, guildID string) ([]*GuildTimezone, error) {
	list, err := s.driver.ListGuildTimezones(ctx, &FindGuildTimezone{GuildID: &guildID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list guild timezones")
	}
	return list, nil
}

// UpsertGuildTimezone adds or updates an entry in a guild's display list.
// Adding a new entry to a full list fails with ErrGuildTimezoneLimit;
// updating an existing display name is always allowed.
func (s *Store) UpsertGuildTimezone(ctx context.Context, upsert *UpsertGuildTimezone) (*GuildTimezone, error) {
	existing, err := s.driver.ListGuildTimezones(ctx, &FindGuildTimezone{GuildID: &upsert.GuildID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list guild timezones")
	}
	replacing := false
	for _, gt := range existing {
		if gt.DisplayName == upsert.DisplayName {
			replacing = true
			break
		}
	}
	if !replacing && len(existing) >= MaxGuildTimezones {
		return nil, ErrGuildTimezoneLimit
	}

	guildTz, err := s.driver.UpsertGuildTimezone(ctx, upsert)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert guild timezone")
	}
	slog.Debug("guild timezone upserted", slog.String("guild", upsert.GuildID), slog.String("name", upsert.DisplayName))
	return guildTz, nil
}

// DeleteGuildTimezone removes one entry from a guild's display list.
func (s *Store) DeleteGuildTimezone(ctx context.Context, guildID, displayName string) error {
	err := s.driver.DeleteGuildTimezone(ctx, &DeleteGuildTimezone{GuildID: guildID, DisplayName: &displayName})
	return errors.Wrap(err, "failed to delete guild timezone")
}

// ClearGuildTimezones removes a guild's whole display list.
func (s *Store) ClearGuildTimezones(ctx context.Context, guildID string) error {
	err := s.driver.DeleteGuildTimezone(ctx, &DeleteGuildTimezone{GuildID: guildID})
	return errors.Wrap(err, "failed to clear guild timezones")
}

// GetDB exposes the underlying connection for health checks.
func (s *Store) GetDB() *sql.DB {
	return s.driver.GetDB()
}
