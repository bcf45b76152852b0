package mapview

import "time"

// NoticeDuration is how long a toast notice stays visible.
const NoticeDuration = 3000 * time.Millisecond

// NoticeCapacityExceeded is the catalog key shown when a fourth module is
// requested.
const NoticeCapacityExceeded = "map.notice.capacity_exceeded"

// Notice is a transient user-facing message.
type Notice struct {
	Key       string
	Category  Category
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the notice should no longer be shown at now.
func (n Notice) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}
