package core

import (
	"sync"
	"sync/atomic"

	"github.com/blockindex/blockindex/log"
)

// SubscriptionID identifies a registered Observer. IDs are allocated
// monotonically and never reused.
type SubscriptionID uint64

// Observer is called synchronously for every event an append produces, in
// the exact order appends were serialized. An Observer must not call Append
// or Forks on the engine that invoked it: both take the writer mutex, which
// is held while observers run, so the call would deadlock.
type Observer func(Event)

// observerRegistry is the subscribe/unsubscribe/fan-out registry (C4). It is
// safe for concurrent Subscribe/Unsubscribe from any goroutine; Notify is
// expected to be called by the chain engine while holding its own writer
// mutex, satisfying the synchronous, order-preserving dispatch contract.
type observerRegistry struct {
	mu        sync.Mutex
	nextID    atomic.Uint64
	observers map[SubscriptionID]Observer
	log       *log.Logger
}

func newObserverRegistry() *observerRegistry {
	return &observerRegistry{
		observers: make(map[SubscriptionID]Observer),
		log:       log.Default().Module("core.observer"),
	}
}

// Subscribe registers an observer and returns its subscription ID. O(1).
func (r *observerRegistry) Subscribe(obs Observer) SubscriptionID {
	id := SubscriptionID(r.nextID.Add(1))
	r.mu.Lock()
	r.observers[id] = obs
	r.mu.Unlock()
	return id
}

// Unsubscribe removes a subscription, reporting whether it was present.
func (r *observerRegistry) Unsubscribe(id SubscriptionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.observers[id]; !ok {
		return false
	}
	delete(r.observers, id)
	return true
}

// Notify fans the event out to the current subscriber set. Invocation order
// across subscribers is unspecified but stable within one call. A panic or
// error from one observer must never prevent the remaining observers from
// being invoked, nor corrupt engine state — the batch producing event is
// already committed by the time Notify runs.
func (r *observerRegistry) Notify(event Event) {
	r.mu.Lock()
	snapshot := make([]Observer, 0, len(r.observers))
	for _, obs := range r.observers {
		snapshot = append(snapshot, obs)
	}
	r.mu.Unlock()

	for _, obs := range snapshot {
		r.dispatch(obs, event)
	}
}

func (r *observerRegistry) dispatch(obs Observer, event Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("observer panicked", "recover", rec)
		}
	}()
	obs(event)
}
