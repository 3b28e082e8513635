package port

import "context"

// RecencyTracker maintains a per-client ordered, deduplicated, size-bounded
// list of recently fetched note identifiers. RecentIDs returns raw ids,
// most-recent-first; resolving them to live, visible notes is the caller's
// responsibility.
type RecencyTracker interface {
	RecordView(ctx context.Context, identity string, noteID int64) Outcome
	RecentIDs(ctx context.Context, identity string) ([]int64, Outcome)
}
