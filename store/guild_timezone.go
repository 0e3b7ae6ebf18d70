package store

// GuildTimezone represents one entry of a guild's timezone display list.
type GuildTimezone struct {
	GuildID     string
	DisplayName string
	Timezone    string
	CreatedTs   int64
}

// FindGuildTimezone specifies the conditions for finding guild timezones.
type FindGuildTimezone struct {
	GuildID     *string
	DisplayName *string
}

// UpsertGuildTimezone specifies the data for upserting a guild timezone.
type UpsertGuildTimezone struct {
	GuildID     string
	DisplayName string
	Timezone    string
}

// DeleteGuildTimezone specifies guild timezones to delete. A nil
// DisplayName clears the guild's whole list.
type DeleteGuildTimezone struct {
	GuildID     string
	DisplayName *string
}
