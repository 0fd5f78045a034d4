package entity

// ListStatus is the user-assigned watch status of a list entry.
type ListStatus string

// Watch statuses for user list entries.
const (
	ListWatching  ListStatus = "watching"
	ListCompleted ListStatus = "completed"
	ListPlanned   ListStatus = "planned"
	ListDropped   ListStatus = "dropped"
)

// ListEntry associates a user with a catalog entry and a watch status.
type ListEntry struct {
	ID      int64
	UserID  int64
	AnimeID int64
	Status  ListStatus
}

// Validate validates the ListEntry entity fields.
func (e *ListEntry) Validate() error {
	if e.UserID == 0 {
		return &ValidationError{Field: "user_id", Message: "user_id is required"}
	}
	if e.AnimeID == 0 {
		return &ValidationError{Field: "anime_id", Message: "anime_id is required"}
	}
	switch e.Status {
	case ListWatching, ListCompleted, ListPlanned, ListDropped:
		return nil
	default:
		return &ValidationError{Field: "status", Message: "status must be watching, completed, planned or dropped"}
	}
}
