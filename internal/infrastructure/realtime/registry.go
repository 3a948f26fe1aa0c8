package realtime

import (
	"sync"

	"github.com/gorilla/websocket"
)

// ChangeListener observes membership transitions for one identity. wasEmpty
// and isEmptyNow describe the identity's connection set immediately before
// and after the mutation, computed atomically with it.
type ChangeListener func(identityID string, wasEmpty, isEmptyNow bool)

type transition struct {
	identityID string
	wasEmpty   bool
	isEmptyNow bool
}

// entry holds the live connection set for one identity. Its mutex serializes
// join/leave for that identity; transitions are recorded and enqueued while
// it is held, so events for one identity can never reorder.
type entry struct {
	mu      sync.Mutex
	handles map[string]*Connection // connection ID -> connection
}

// Registry maps identity IDs to their live connection sets. It is the single
// owner of "who is connected" state: created at process start, cleared at
// shutdown. Membership transitions are dispatched to the change listener from
// a dedicated notifier goroutine, so presence handling never blocks
// connection admission or teardown. Entries persist once an identity has
// connected; the map is keyed by user and bounded by the user population.
type Registry struct {
	mu       sync.RWMutex // guards the conns map structure, not entry contents
	conns    map[string]*entry
	listener ChangeListener

	events chan transition
	quit   chan struct{}
	done   chan struct{}
	stop   sync.Once
}

// NewRegistry constructs a Registry and starts its notifier loop.
func NewRegistry() *Registry {
	r := &Registry{
		conns:  make(map[string]*entry),
		events: make(chan transition, 256),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go r.notifyLoop()
	return r
}

// OnChange installs the transition listener. Install it during wiring,
// before the first Join.
func (r *Registry) OnChange(l ChangeListener) {
	r.listener = l
}

func (r *Registry) notifyLoop() {
	defer close(r.done)
	for {
		select {
		case <-r.quit:
			return
		case t := <-r.events:
			if r.listener != nil {
				r.listener(t.identityID, t.wasEmpty, t.isEmptyNow)
			}
		}
	}
}

func (r *Registry) emit(t transition) {
	select {
	case r.events <- t:
	case <-r.quit:
	}
}

func (r *Registry) entryFor(identityID string) *entry {
	r.mu.RLock()
	e := r.conns[identityID]
	r.mu.RUnlock()
	if e != nil {
		return e
	}

	r.mu.Lock()
	e = r.conns[identityID]
	if e == nil {
		e = &entry{handles: make(map[string]*Connection)}
		r.conns[identityID] = e
	}
	r.mu.Unlock()
	return e
}

// Join adds conn to the identity's connection set. Idempotent for a handle
// that is already present: no double count and no second transition event.
func (r *Registry) Join(identityID string, conn *Connection) {
	e := r.entryFor(identityID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.handles[conn.ID]; ok {
		return
	}
	wasEmpty := len(e.handles) == 0
	e.handles[conn.ID] = conn

	if wasEmpty {
		r.emit(transition{identityID: identityID, wasEmpty: true, isEmptyNow: false})
	}
}

// Leave removes conn from the identity's connection set. The offline
// transition fires only when the last handle for the identity is removed.
func (r *Registry) Leave(identityID string, conn *Connection) {
	r.mu.RLock()
	e := r.conns[identityID]
	r.mu.RUnlock()
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.handles[conn.ID]; !ok {
		return
	}
	delete(e.handles, conn.ID)

	if len(e.handles) == 0 {
		r.emit(transition{identityID: identityID, wasEmpty: false, isEmptyNow: true})
	}
}

// DeliverToUser sends payload to every live handle of the identity and
// reports whether at least one existed. An unreachable user is a normal
// outcome, never an error.
func (r *Registry) DeliverToUser(identityID string, payload []byte) bool {
	r.mu.RLock()
	e := r.conns[identityID]
	r.mu.RUnlock()
	if e == nil {
		return false
	}

	conns := e.snapshot()
	for _, conn := range conns {
		_ = conn.Send(payload)
	}
	return len(conns) > 0
}

// BroadcastAll sends payload to every live handle across all identities.
func (r *Registry) BroadcastAll(payload []byte) {
	for _, conn := range r.allConnections("") {
		_ = conn.Send(payload)
	}
}

// BroadcastExcept sends payload to every live handle except those belonging
// to the excluded identity. Presence events go to everyone else.
func (r *Registry) BroadcastExcept(identityID string, payload []byte) {
	for _, conn := range r.allConnections(identityID) {
		_ = conn.Send(payload)
	}
}

// Count reports the number of live handles for the identity.
func (r *Registry) Count(identityID string) int {
	r.mu.RLock()
	e := r.conns[identityID]
	r.mu.RUnlock()
	if e == nil {
		return 0
	}
	return e.size()
}

// Close stops the notifier, terminates every tracked connection, and resets
// registry state.
func (r *Registry) Close() {
	r.stop.Do(func() {
		close(r.quit)
		<-r.done
	})

	conns := r.allConnections("")

	r.mu.Lock()
	r.conns = make(map[string]*entry)
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close(websocket.CloseGoingAway, "registry shutdown")
	}
}

func (r *Registry) allConnections(excludeIdentity string) []*Connection {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.conns))
	for id, e := range r.conns {
		if id == excludeIdentity {
			continue
		}
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	var conns []*Connection
	for _, e := range entries {
		conns = append(conns, e.snapshot()...)
	}
	return conns
}

func (e *entry) snapshot() []*Connection {
	e.mu.Lock()
	defer e.mu.Unlock()
	conns := make([]*Connection, 0, len(e.handles))
	for _, c := range e.handles {
		conns = append(conns, c)
	}
	return conns
}

func (e *entry) size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handles)
}
