package domain

import "time"

// Note is the record unit managed by the service. Snapshots of it are
// cached in Redis keyed by ID, so the JSON tags double as the cache
// serialization format.
type Note struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Visible reports whether the note may be returned to a caller. Soft-deleted
// notes are only visible when the caller explicitly asks for them. The check
// is reapplied after cache reads because a cached snapshot can be stale with
// respect to a concurrent delete.
func (n Note) Visible(includeDeleted bool) bool {
	return includeDeleted || !n.IsDeleted
}
