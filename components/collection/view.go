// Package collection implements the remote collection view-model shared by
// every back-office screen: load a list wholesale, apply point mutations
// optimistically, and reconcile failures by refetching the whole collection.
package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Intent describes the field changes a mutation wants to apply to one item.
// Payloads are opaque to the view-model; the per-resource Apply function and
// the backend agree on the keys.
type Intent map[string]any

// Params are the query parameters for a list fetch (date range, filters).
// They are opaque strings; each screen defines its own keys.
type Params map[string]string

// Clone returns an independent copy so a reconciling reload cannot observe
// caller mutations of the original map.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Source is the transport behind a view: wholesale list reads plus point
// writes. Update may return the server's copy of the item, or nil when the
// endpoint responds without a body.
type Source[T any] interface {
	List(ctx context.Context, params Params) ([]T, error)
	Update(ctx context.Context, id string, intent Intent) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Phase tracks the load lifecycle of the whole collection.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseError   Phase = "error"
)

// ItemPhase tracks one item's position in the optimistic-update lifecycle.
type ItemPhase string

const (
	ItemSettled    ItemPhase = "settled"
	ItemOptimistic ItemPhase = "optimistic"
	ItemReloading  ItemPhase = "reloading"
)

// Telemetry records view-model events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

// Options configures a View. Source, Identify, and Apply are required;
// everything else gets a safe default.
type Options[T any] struct {
	// Resource names the collection in events and telemetry ("leads", ...).
	Resource string
	Source   Source[T]
	// Identify extracts the unique item id.
	Identify func(T) string
	// Apply merges an intent into an item, returning the updated copy.
	Apply func(T, Intent) T
	Telemetry Telemetry
	Events    *Broadcaster
}

// View keeps a locally rendered collection synchronized with server state
// under user-driven point mutations. It is safe for concurrent use; network
// calls run outside the lock, so subscribers can observe the optimistic
// window between local apply and request settlement.
type View[T any] struct {
	opts Options[T]

	mu         sync.RWMutex
	items      []T
	phase      Phase
	itemPhases map[string]ItemPhase
	lastParams Params
	lastErr    error
}

// NewView builds a view with safe defaults. It errors when a required
// collaborator (source, identify, apply) is missing.
func NewView[T any](opts Options[T]) (*View[T], error) {
	if opts.Source == nil {
		return nil, errors.New("collection: source is required")
	}
	if opts.Identify == nil {
		return nil, errors.New("collection: identify func is required")
	}
	if opts.Apply == nil {
		return nil, errors.New("collection: apply func is required")
	}
	if opts.Resource == "" {
		opts.Resource = "collection"
	}
	if opts.Telemetry == nil {
		opts.Telemetry = noopTelemetry{}
	}
	return &View[T]{
		opts:       opts,
		phase:      PhaseIdle,
		itemPhases: map[string]ItemPhase{},
	}, nil
}

// Load replaces the entire collection with the response for params. The
// previous items are retained when the fetch fails, so a failed refresh does
// not blank an already rendered screen.
func (v *View[T]) Load(ctx context.Context, params Params) error {
	v.mu.Lock()
	v.phase = PhaseLoading
	v.lastParams = params.Clone()
	v.mu.Unlock()

	items, err := v.opts.Source.List(ctx, params)
	v.mu.Lock()
	if err != nil {
		v.phase = PhaseError
		v.lastErr = err
		v.mu.Unlock()
		v.record(ctx, "collection.load.error", map[string]any{"error": err.Error()})
		return fmt.Errorf("collection: load %s: %w", v.opts.Resource, err)
	}
	v.items = items
	v.phase = PhaseLoaded
	v.lastErr = nil
	v.itemPhases = map[string]ItemPhase{}
	v.mu.Unlock()

	v.publish(Event{Resource: v.opts.Resource, Reason: ReasonLoad})
	v.record(ctx, "collection.load", map[string]any{"count": len(items)})
	return nil
}

// Reload re-issues Load with the last-used params.
func (v *View[T]) Reload(ctx context.Context) error {
	v.mu.RLock()
	params := v.lastParams.Clone()
	v.mu.RUnlock()
	return v.Load(ctx, params)
}

// Mutate applies intent to the item optimistically, issues the write, and on
// failure reconciles by refetching the whole collection. Mutating an id that
// is not present is a recorded no-op: the screen may be stale after a
// concurrent deletion, and sending the write anyway would only widen the
// divergence.
func (v *View[T]) Mutate(ctx context.Context, id string, intent Intent) error {
	v.mu.Lock()
	idx := v.indexOf(id)
	if idx < 0 {
		v.mu.Unlock()
		v.record(ctx, "collection.mutate.missing", map[string]any{"id": id})
		return nil
	}
	v.items[idx] = v.opts.Apply(v.items[idx], intent)
	v.itemPhases[id] = ItemOptimistic
	v.mu.Unlock()
	v.publish(Event{Resource: v.opts.Resource, Reason: ReasonOptimistic, ItemID: id})

	updated, err := v.opts.Source.Update(ctx, id, intent)
	if err != nil {
		return v.reconcile(ctx, id, fmt.Errorf("collection: update %s/%s: %w", v.opts.Resource, id, err))
	}

	v.mu.Lock()
	if updated != nil {
		if i := v.indexOf(id); i >= 0 {
			v.items[i] = *updated
		}
	}
	delete(v.itemPhases, id)
	v.mu.Unlock()
	v.publish(Event{Resource: v.opts.Resource, Reason: ReasonCommit, ItemID: id})
	v.record(ctx, "collection.mutate", map[string]any{"id": id})
	return nil
}

// Remove splices the item out locally, issues the DELETE, and reloads on
// failure so a still-present item reappears instead of staying silently
// hidden.
func (v *View[T]) Remove(ctx context.Context, id string) error {
	v.mu.Lock()
	idx := v.indexOf(id)
	if idx < 0 {
		v.mu.Unlock()
		v.record(ctx, "collection.remove.missing", map[string]any{"id": id})
		return nil
	}
	v.items = append(v.items[:idx], v.items[idx+1:]...)
	v.itemPhases[id] = ItemOptimistic
	v.mu.Unlock()
	v.publish(Event{Resource: v.opts.Resource, Reason: ReasonRemove, ItemID: id})

	if err := v.opts.Source.Delete(ctx, id); err != nil {
		return v.reconcile(ctx, id, fmt.Errorf("collection: delete %s/%s: %w", v.opts.Resource, id, err))
	}

	v.mu.Lock()
	delete(v.itemPhases, id)
	v.mu.Unlock()
	v.record(ctx, "collection.remove", map[string]any{"id": id})
	return nil
}

// BulkResult reports the outcome of a BulkMutate call.
type BulkResult struct {
	Succeeded []string
	Failed    []string
}

// BulkMutate fires an independent write per id concurrently with no ordering
// guarantee. Each present item is applied optimistically before its write is
// issued. If any subset fails, the collection is reloaded once and a single
// aggregated error is returned; there is no partial rollback finer than
// "reload everything".
func (v *View[T]) BulkMutate(ctx context.Context, ids []string, intent Intent) (BulkResult, error) {
	type outcome struct {
		id  string
		err error
	}

	pending := make([]string, 0, len(ids))
	v.mu.Lock()
	for _, id := range ids {
		idx := v.indexOf(id)
		if idx < 0 {
			continue
		}
		v.items[idx] = v.opts.Apply(v.items[idx], intent)
		v.itemPhases[id] = ItemOptimistic
		pending = append(pending, id)
	}
	v.mu.Unlock()
	if len(pending) == 0 {
		return BulkResult{}, nil
	}
	v.publish(Event{Resource: v.opts.Resource, Reason: ReasonOptimistic})

	outcomes := make(chan outcome, len(pending))
	var wg sync.WaitGroup
	for _, id := range pending {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := v.opts.Source.Update(ctx, id, intent)
			outcomes <- outcome{id: id, err: err}
		}(id)
	}
	wg.Wait()
	close(outcomes)

	var result BulkResult
	var failures []error
	for out := range outcomes {
		if out.err != nil {
			result.Failed = append(result.Failed, out.id)
			failures = append(failures, fmt.Errorf("%s: %w", out.id, out.err))
			continue
		}
		result.Succeeded = append(result.Succeeded, out.id)
		v.mu.Lock()
		delete(v.itemPhases, out.id)
		v.mu.Unlock()
	}
	sort.Strings(result.Succeeded)
	sort.Strings(result.Failed)

	if len(failures) == 0 {
		v.publish(Event{Resource: v.opts.Resource, Reason: ReasonCommit})
		v.record(ctx, "collection.bulk", map[string]any{"count": len(result.Succeeded)})
		return result, nil
	}

	aggregate := fmt.Errorf("collection: bulk update %s: %w", v.opts.Resource, errors.Join(failures...))
	if err := v.Reload(ctx); err != nil {
		aggregate = errors.Join(aggregate, err)
	}
	v.record(ctx, "collection.bulk.error", map[string]any{
		"failed":    len(result.Failed),
		"succeeded": len(result.Succeeded),
	})
	return result, aggregate
}

// Items returns a snapshot copy of the collection.
func (v *View[T]) Items() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]T, len(v.items))
	copy(out, v.items)
	return out
}

// Item returns the item with the given id, if present.
func (v *View[T]) Item(id string) (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if idx := v.indexOf(id); idx >= 0 {
		return v.items[idx], true
	}
	var zero T
	return zero, false
}

// Len returns the current collection size.
func (v *View[T]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

// State reports the collection load phase.
func (v *View[T]) State() Phase {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.phase
}

// ItemState reports an item's optimistic phase; items with no pending
// mutation are settled.
func (v *View[T]) ItemState(id string) ItemPhase {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if phase, ok := v.itemPhases[id]; ok {
		return phase
	}
	return ItemSettled
}

// LastError returns the most recent load failure, if any.
func (v *View[T]) LastError() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastErr
}

// reconcile rolls back a failed write by refetching with the last-used
// params. The optimistic state stays visible until the reload settles; the
// resulting flicker is the accepted behavior, not a bug.
func (v *View[T]) reconcile(ctx context.Context, id string, cause error) error {
	v.mu.Lock()
	v.itemPhases[id] = ItemReloading
	v.mu.Unlock()
	v.publish(Event{Resource: v.opts.Resource, Reason: ReasonReconcile, ItemID: id})
	v.record(ctx, "collection.reconcile", map[string]any{"id": id, "error": cause.Error()})

	if err := v.Reload(ctx); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// indexOf must be called with the lock held.
func (v *View[T]) indexOf(id string) int {
	for i := range v.items {
		if v.opts.Identify(v.items[i]) == id {
			return i
		}
	}
	return -1
}

func (v *View[T]) publish(event Event) {
	if v.opts.Events == nil {
		return
	}
	v.opts.Events.Publish(event)
}

func (v *View[T]) record(ctx context.Context, event string, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["resource"] = v.opts.Resource
	v.opts.Telemetry.Record(ctx, event, payload)
}
