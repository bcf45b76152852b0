package mapview

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/nestmap/internal/platform/logging"
	"go.uber.org/zap"
)

const defaultIdleTTL = 30 * time.Minute

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	View    Options
	IdleTTL time.Duration
	NewID   func() string
}

// Registry owns the open views of a process. A view lives from Open until
// Close or until it has been idle for IdleTTL.
type Registry struct {
	viewOptions Options
	idleTTL     time.Duration
	newID       func() string
	now         func() time.Time
	logger      *zap.Logger

	mu    sync.Mutex
	views map[string]*registryEntry
}

type registryEntry struct {
	view     *View
	lastSeen time.Time
}

// NewRegistry builds an empty registry.
func NewRegistry(opts RegistryOptions) *Registry {
	idleTTL := opts.IdleTTL
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := opts.View.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		viewOptions: opts.View,
		idleTTL:     idleTTL,
		newID:       newID,
		now:         now,
		logger:      logging.OrNop(opts.View.Logger),
		views:       map[string]*registryEntry{},
	}
}

// Open creates a view for a visitor with the given preference order.
func (r *Registry) Open(preferred []Category) *View {
	view := NewView(r.newID(), preferred, r.viewOptions)
	r.mu.Lock()
	r.views[view.ID()] = &registryEntry{view: view, lastSeen: r.now()}
	r.mu.Unlock()
	r.logger.Debug("map view opened", zap.String("view_id", view.ID()))
	return view
}

// Get returns an open view and marks it as seen.
func (r *Registry) Get(id string) (*View, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.views[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = r.now()
	return entry.view, true
}

// Close closes and forgets one view.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	entry, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if ok {
		entry.view.Close()
		r.logger.Debug("map view closed", zap.String("view_id", id))
	}
}

// Len returns the number of open views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep closes views idle for longer than the TTL and returns how many it
// closed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)
	var expired []*View
	r.mu.Lock()
	for id, entry := range r.views {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry.view)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, view := range expired {
		view.Close()
	}
	if len(expired) > 0 {
		r.logger.Info("expired idle map views", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then closes every view.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = r.idleTTL / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// CloseAll closes every open view.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	views := make([]*View, 0, len(r.views))
	for _, entry := range r.views {
		views = append(views, entry.view)
	}
	r.views = map[string]*registryEntry{}
	r.mu.Unlock()

	for _, view := range views {
		view.Close()
	}
}
