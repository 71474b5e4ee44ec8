package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength = 8
)

// Assignment rules
const (
	// MaxOpenTrackerHours is the threshold beyond which an open tracker is
	// considered a stale session: closing its assignment is rejected, and the
	// task-close batch deletes it instead of closing it.
	MaxOpenTrackerHours = 12

	// RecalculateChunkSize bounds how many assignments the maintenance
	// recalculation loads and saves per batch.
	RecalculateChunkSize = 2000
)
