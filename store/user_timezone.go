package store

// UserTimezone represents a user's stored timezone preference. The timezone
// is always a canonical IANA identifier; raw user input is resolved before
// it reaches the store.
type UserTimezone struct {
	UserID    string
	Timezone  string
	CreatedTs int64
	UpdatedTs int64
}

// FindUserTimezone specifies the conditions for finding a user timezone.
type FindUserTimezone struct {
	UserID *string
}

// UpsertUserTimezone specifies the data for upserting a user timezone.
type UpsertUserTimezone struct {
	UserID   string
	Timezone string
}

// DeleteUserTimezone specifies the user timezone to delete.
type DeleteUserTimezone struct {
	UserID string
}
