package mapview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/louisbranch/nestmap/internal/platform/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/louisbranch/nestmap/internal/mapview"

const defaultFetchTimeout = 5 * time.Second

// ErrViewClosed is returned by blocking calls on a closed view.
var ErrViewClosed = errors.New("map view is closed")

// Mode is how the view presents properties.
type Mode string

const (
	ModeList Mode = "list"
	ModeMap  Mode = "map"
)

// ParseMode parses a mode name.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModeList:
		return ModeList, true
	case ModeMap:
		return ModeMap, true
	default:
		return "", false
	}
}

// Options configures a View.
type Options struct {
	Fetcher      Fetcher
	Logger       *zap.Logger
	Now          func() time.Time
	FetchTimeout time.Duration
	Tracer       trace.Tracer
}

// View is the state of one open map view. All mutations are serialized, and
// each category's overlay slice is written only by that category's binding.
type View struct {
	id        string
	fetcher   Fetcher
	logger    *zap.Logger
	tracer    trace.Tracer
	now       func() time.Time
	timeout   time.Duration
	ctx       context.Context
	cancelAll context.CancelFunc
	inflight  sync.WaitGroup

	mu         sync.Mutex
	closed     bool
	mode       Mode
	preferred  []Category
	activation *Activation
	selection  Selection
	bindings   map[Category]*binding
}

// NewView opens an empty view in list mode. preferred is the visitor's
// category preference order used by SwitchMode.
func NewView(id string, preferred []Category, opts Options) *View {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	ctx, cancel := context.WithCancel(context.Background())
	v := &View{
		id:         id,
		fetcher:    opts.Fetcher,
		logger:     logging.OrNop(opts.Logger).With(zap.String("view_id", id)),
		tracer:     tracer,
		now:        now,
		timeout:    timeout,
		ctx:        ctx,
		cancelAll:  cancel,
		mode:       ModeList,
		preferred:  Normalize(preferred),
		activation: NewActivation(now),
		bindings:   make(map[Category]*binding, len(categoryNumbers)),
	}
	for _, c := range categoryNumbers {
		v.bindings[c] = newBinding(c)
	}
	return v
}

// ID returns the view identifier.
func (v *View) ID() string { return v.id }

// Toggle flips one category and re-evaluates its binding.
func (v *View) Toggle(c Category) ToggleResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ToggleIgnored
	}
	result := v.activation.Toggle(c)
	if result == ToggleActivated || result == ToggleDeactivated {
		v.reconcileLocked()
	}
	return result
}

// Reset replaces the active categories; see Activation.Reset.
func (v *View) Reset(categories []Category) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.activation.Reset(categories)
	v.reconcileLocked()
}

// SelectProperty focuses the view on p and refetches active overlays.
func (v *View) SelectProperty(p Property) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.selection.Select(p)
	v.reconcileLocked()
}

// ClearSelection removes the selected property and clears every overlay.
func (v *View) ClearSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.selection.Clear()
	v.reconcileLocked()
}

// SwitchMode changes presentation mode. Entering the map activates the first
// preferred category; returning to the list restores the preference order
// and drops the map selection.
func (v *View) SwitchMode(mode Mode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || mode == v.mode {
		return
	}
	switch mode {
	case ModeMap:
		var first []Category
		if len(v.preferred) > 0 {
			first = v.preferred[:1]
		}
		v.activation.Reset(first)
	case ModeList:
		v.activation.Reset(v.preferred)
		v.selection.Clear()
	default:
		return
	}
	v.mode = mode
	v.reconcileLocked()
}

// SetPreferred replaces the preference order used by later mode switches.
func (v *View) SetPreferred(preferred []Category) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.preferred = Normalize(preferred)
}

// DismissNotice clears the toast notice.
func (v *View) DismissNotice() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.activation.DismissNotice()
}

// Snapshot is a consistent read of the whole view.
type Snapshot struct {
	ID           string          `json:"view_id"`
	Mode         Mode            `json:"mode"`
	Active       []Category      `json:"active"`
	DisplayOrder []Category      `json:"display_order"`
	Preferred    []Category      `json:"preferred"`
	Selected     *Property       `json:"selected,omitempty"`
	Scores       []CategoryScore `json:"scores,omitempty"`
	Notice       *Notice         `json:"notice,omitempty"`
	Overlays     []Overlay       `json:"overlays"`
}

// Snapshot returns the current state. Overlays are listed for active
// categories only, in display order.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	order := v.activation.DisplayOrder()
	snap := Snapshot{
		ID:           v.id,
		Mode:         v.mode,
		Active:       v.activation.Active(),
		DisplayOrder: order,
		Preferred:    append([]Category{}, v.preferred...),
		Overlays:     []Overlay{},
	}
	if p, ok := v.selection.Property(); ok {
		snap.Selected = &p
		snap.Scores = v.selection.Scores(order)
	}
	if n, ok := v.activation.Notice(); ok {
		snap.Notice = &n
	}
	for _, c := range snap.Active {
		snap.Overlays = append(snap.Overlays, v.bindings[c].overlay.clone())
	}
	return snap
}

// Overlay returns one category's overlay slice.
func (v *View) Overlay(c Category) Overlay {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, ok := v.bindings[c]
	if !ok {
		return Overlay{Category: c, Status: OverlayEmpty, Features: []Feature{}}
	}
	return b.overlay.clone()
}

// Settle waits until no fetch issued before the call is still in flight.
func (v *View) Settle(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	pending := make([]chan struct{}, 0, len(v.bindings))
	for _, b := range v.bindings {
		if b.done != nil {
			pending = append(pending, b.done)
		}
	}
	v.mu.Unlock()

	for _, done := range pending {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		case <-v.ctx.Done():
			return ErrViewClosed
		}
	}
	return nil
}

// Close cancels in-flight fetches and waits for them to return. Later
// mutations are ignored.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	for _, b := range v.bindings {
		b.supersede()
	}
	v.mu.Unlock()

	v.cancelAll()
	v.inflight.Wait()
}

func (v *View) reconcileLocked() {
	var selected *Property
	if p, ok := v.selection.Property(); ok {
		selected = &p
	}
	for _, c := range categoryNumbers {
		b := v.bindings[c]
		key, enabled := DeriveFetchKey(c, v.activation.IsActive(c), selected)
		if b.retarget(key, enabled) {
			v.startFetchLocked(b, *selected)
		}
	}
}

func (v *View) startFetchLocked(b *binding, property Property) {
	if v.fetcher == nil {
		b.overlay.Status = OverlayFailed
		return
	}
	epoch := b.epoch
	category := b.category
	ctx, cancel := context.WithTimeout(v.ctx, v.timeout)
	done := make(chan struct{})
	b.cancel = cancel
	b.done = done

	v.inflight.Add(1)
	go func() {
		defer v.inflight.Done()
		defer close(done)
		defer cancel()

		ctx, span := v.tracer.Start(ctx, "mapview.fetch_overlay", trace.WithAttributes(
			attribute.String("category", string(category)),
			attribute.String("property_id", property.ID),
			attribute.Int64("epoch", int64(epoch)),
		))
		features, err := v.fetcher.FetchOverlay(ctx, category, property)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		v.apply(category, epoch, features, err)
	}()
}

func (v *View) apply(category Category, epoch uint64, features []Feature, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	b := v.bindings[category]
	if v.closed || !b.current(epoch) {
		v.logger.Debug("discard stale overlay result",
			zap.String("category", string(category)),
			zap.Uint64("epoch", epoch),
			zap.Uint64("current_epoch", b.epoch),
		)
		return
	}
	b.cancel = nil
	b.done = nil

	overlay := Overlay{
		Category:   category,
		PropertyID: b.key.PropertyID,
		UpdatedAt:  v.now(),
	}
	if err != nil {
		v.logger.Warn("overlay fetch failed",
			zap.String("category", string(category)),
			zap.String("property_id", b.key.PropertyID),
			zap.Error(err),
		)
		overlay.Status = OverlayFailed
		overlay.Features = []Feature{}
	} else {
		overlay.Status = OverlayReady
		overlay.Features = append([]Feature{}, features...)
	}
	b.overlay = overlay
}
