package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whenbot/whenbot/internal/profile"
)

// fakeDriver is an in-memory Driver for exercising the store policies
// without a database.
type fakeDriver struct {
	users  map[string]*UserTimezone
	guilds map[string][]*GuildTimezone

	getUserCalls int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		users:  map[string]*UserTimezone{},
		guilds: map[string][]*GuildTimezone{},
	}
}

func (f *fakeDriver) GetDB() *sql.DB { return nil }
func (f *fakeDriver) Close() error   { return nil }

func (f *fakeDriver) Migrate(context.Context) error { return nil }

func (f *fakeDriver) UpsertUserTimezone(_ context.Context, upsert *UpsertUserTimezone) (*UserTimezone, error) {
	now := time.Now().Unix()
	userTz := &UserTimezone{UserID: upsert.UserID, Timezone: upsert.Timezone, CreatedTs: now, UpdatedTs: now}
	if existing, ok := f.users[upsert.UserID]; ok {
		userTz.CreatedTs = existing.CreatedTs
	}
	f.users[upsert.UserID] = userTz
	return userTz, nil
}

func (f *fakeDriver) GetUserTimezone(_ context.Context, find *FindUserTimezone) (*UserTimezone, error) {
	f.getUserCalls++
	if find.UserID == nil {
		return nil, fmt.Errorf("user_id is required")
	}
	return f.users[*find.UserID], nil
}

func (f *fakeDriver) DeleteUserTimezone(_ context.Context, del *DeleteUserTimezone) error {
	delete(f.users, del.UserID)
	return nil
}

func (f *fakeDriver) UpsertGuildTimezone(_ context.Context, upsert *UpsertGuildTimezone) (*GuildTimezone, error) {
	list := f.guilds[upsert.GuildID]
	for _, gt := range list {
		if gt.DisplayName == upsert.DisplayName {
			gt.Timezone = upsert.Timezone
			return gt, nil
		}
	}
	gt := &GuildTimezone{
		GuildID:     upsert.GuildID,
		DisplayName: upsert.DisplayName,
		Timezone:    upsert.Timezone,
		CreatedTs:   time.Now().Unix(),
	}
	f.guilds[upsert.GuildID] = append(list, gt)
	return gt, nil
}

func (f *fakeDriver) ListGuildTimezones(_ context.Context, find *FindGuildTimezone) ([]*GuildTimezone, error) {
	if find.GuildID == nil {
		return nil, fmt.Errorf("guild_id is required")
	}
	return f.guilds[*find.GuildID], nil
}

func (f *fakeDriver) DeleteGuildTimezone(_ context.Context, del *DeleteGuildTimezone) error {
	if del.DisplayName == nil {
		delete(f.guilds, del.GuildID)
		return nil
	}
	list := f.guilds[del.GuildID]
	kept := list[:0]
	for _, gt := range list {
		if gt.DisplayName != *del.DisplayName {
			kept = append(kept, gt)
		}
	}
	f.guilds[del.GuildID] = kept
	return nil
}

func newTestStore(t *testing.T, driver Driver) *Store {
	t.Helper()
	s := New(driver, &profile.Profile{Mode: "dev", Driver: "sqlite"})
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreUserTimezoneCaching(t *testing.T) {
	ctx := context.Background()
	driver := newFakeDriver()
	s := newTestStore(t, driver)

	_, err := s.UpsertUserTimezone(ctx, &UpsertUserTimezone{UserID: "u1", Timezone: "America/Chicago"})
	require.NoError(t, err)

	got, err := s.GetUserTimezone(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "America/Chicago", got.Timezone)
	assert.Equal(t, 0, driver.getUserCalls, "upsert warms the cache, read should not hit the driver")

	got, err = s.GetUserTimezone(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", got.Timezone)
	assert.Equal(t, 0, driver.getUserCalls)
}

func TestStoreDeleteUserTimezoneInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	driver := newFakeDriver()
	s := newTestStore(t, driver)

	_, err := s.UpsertUserTimezone(ctx, &UpsertUserTimezone{UserID: "u1", Timezone: "Asia/Tokyo"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUserTimezone(ctx, &DeleteUserTimezone{UserID: "u1"}))

	got, err := s.GetUserTimezone(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, driver.getUserCalls, "miss goes back to the driver")
}

func TestStoreGuildTimezoneLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newFakeDriver())

	for i := 0; i < MaxGuildTimezones; i++ {
		_, err := s.UpsertGuildTimezone(ctx, &UpsertGuildTimezone{
			GuildID:     "g1",
			DisplayName: fmt.Sprintf("City %d", i),
			Timezone:    "Europe/London",
		})
		require.NoError(t, err)
	}

	_, err := s.UpsertGuildTimezone(ctx, &UpsertGuildTimezone{
		GuildID:     "g1",
		DisplayName: "One Too Many",
		Timezone:    "Europe/Paris",
	})
	assert.ErrorIs(t, err, ErrGuildTimezoneLimit)

	// Updating an existing display name is still allowed at the cap.
	_, err = s.UpsertGuildTimezone(ctx, &UpsertGuildTimezone{
		GuildID:     "g1",
		DisplayName: "City 0",
		Timezone:    "Europe/Paris",
	})
	assert.NoError(t, err)

	// A different guild has its own budget.
	_, err = s.UpsertGuildTimezone(ctx, &UpsertGuildTimezone{
		GuildID:     "g2",
		DisplayName: "City 0",
		Timezone:    "Europe/Paris",
	})
	assert.NoError(t, err)
}

func TestStoreClearGuildTimezones(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newFakeDriver())

	_, err := s.UpsertGuildTimezone(ctx, &UpsertGuildTimezone{GuildID: "g1", DisplayName: "London", Timezone: "Europe/London"})
	require.NoError(t, err)
	_, err = s.UpsertGuildTimezone(ctx, &UpsertGuildTimezone{GuildID: "g1", DisplayName: "Tokyo", Timezone: "Asia/Tokyo"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteGuildTimezone(ctx, "g1", "London"))
	list, err := s.ListGuildTimezones(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tokyo", list[0].DisplayName)

	require.NoError(t, s.ClearGuildTimezones(ctx, "g1"))
	list, err = s.ListGuildTimezones(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
