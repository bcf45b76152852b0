package mapview

import (
	"slices"
	"time"
)

// MaxActive is the number of overlays that may be shown at once.
const MaxActive = 3

// ToggleResult reports what a Toggle call did.
type ToggleResult int

const (
	ToggleIgnored ToggleResult = iota
	ToggleActivated
	ToggleDeactivated
	ToggleRejected
)

func (r ToggleResult) String() string {
	switch r {
	case ToggleActivated:
		return "activated"
	case ToggleDeactivated:
		return "deactivated"
	case ToggleRejected:
		return "rejected"
	default:
		return "ignored"
	}
}

// Activation tracks active categories, most recently activated first.
// It is not safe for concurrent use; View serializes access.
type Activation struct {
	active []Category
	notice *Notice
	now    func() time.Time
}

// NewActivation returns an empty activation state. A nil clock uses time.Now.
func NewActivation(now func() time.Time) *Activation {
	if now == nil {
		now = time.Now
	}
	return &Activation{now: now}
}

// Active returns a copy of the active categories in activation order.
func (a *Activation) Active() []Category {
	return append([]Category{}, a.active...)
}

// IsActive reports whether c is active.
func (a *Activation) IsActive(c Category) bool {
	return slices.Contains(a.active, c)
}

// Toggle deactivates an active category or activates an inactive one. When
// MaxActive categories are already active the call changes nothing and sets
// the capacity notice.
func (a *Activation) Toggle(c Category) ToggleResult {
	if !c.Valid() {
		return ToggleIgnored
	}
	if i := slices.Index(a.active, c); i >= 0 {
		a.active = slices.Delete(a.active, i, i+1)
		return ToggleDeactivated
	}
	if len(a.active) >= MaxActive {
		now := a.now()
		a.notice = &Notice{
			Key:       NoticeCapacityExceeded,
			Category:  c,
			IssuedAt:  now,
			ExpiresAt: now.Add(NoticeDuration),
		}
		return ToggleRejected
	}
	a.active = slices.Insert(a.active, 0, c)
	return ToggleActivated
}

// Reset replaces the active categories. Unknown ids and repeats are dropped
// and the list is cut to MaxActive, keeping the leading entries.
func (a *Activation) Reset(categories []Category) {
	next := Normalize(categories)
	if len(next) > MaxActive {
		next = next[:MaxActive]
	}
	a.active = next
}

// DisplayOrder returns active categories first, then the inactive ones in
// canonical order.
func (a *Activation) DisplayOrder() []Category {
	return OrderWith(a.active)
}

// Notice returns the current notice unless it has expired.
func (a *Activation) Notice() (Notice, bool) {
	if a.notice == nil {
		return Notice{}, false
	}
	if a.notice.Expired(a.now()) {
		a.notice = nil
		return Notice{}, false
	}
	return *a.notice, true
}

// DismissNotice clears the current notice.
func (a *Activation) DismissNotice() {
	a.notice = nil
}
