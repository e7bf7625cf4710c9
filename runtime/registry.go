package runtime

import (
	"sync"

	"social-club/contract"
)

type connSet map[string]contract.Connection

// Registry is the in-process directory of live connections.
// A user may hold several connections at once (one per device or tab).
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]connSet // map user -> connection ID -> connection
	byConn map[string]string  // map connection ID -> user
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]connSet),
		byConn: make(map[string]string),
	}
}

// Register attaches a connection to a user.
// Registering the same connection twice is a no-op; a connection
// re-registered under another user is moved, never duplicated.
func (r *Registry) Register(userID string, conn contract.Connection) {
	if conn == nil || userID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	connID := conn.ID()
	if previous, ok := r.byConn[connID]; ok && previous != userID {
		r.removeLocked(previous, connID)
	}
	if _, ok := r.byUser[userID]; !ok {
		r.byUser[userID] = make(connSet)
	}
	r.byUser[userID][connID] = conn
	r.byConn[connID] = userID
}

// Unregister detaches a connection. Unknown connections are ignored.
// Removing the last connection of a user makes them offline.
func (r *Registry) Unregister(conn contract.Connection) {
	if conn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	connID := conn.ID()
	userID, ok := r.byConn[connID]
	if !ok {
		return
	}
	r.removeLocked(userID, connID)
}

func (r *Registry) removeLocked(userID, connID string) {
	delete(r.byConn, connID)
	if conns, ok := r.byUser[userID]; ok {
		delete(conns, connID)
		// Don't keep empty sets around
		if len(conns) == 0 {
			delete(r.byUser, userID)
		}
	}
}

// Connections returns a snapshot of the user's live connections.
// The slice is owned by the caller; it is empty when the user is offline.
func (r *Registry) Connections(userID string) []contract.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := r.byUser[userID]
	out := make([]contract.Connection, 0, len(conns))
	for _, conn := range conns {
		out = append(out, conn)
	}
	return out
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

func (r *Registry) Stats() contract.RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return contract.RegistryStats{Users: len(r.byUser), Connections: len(r.byConn)}
}
