package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/domain"
)

type dirEntry struct {
	meta domain.Connection
	conn SignalConn
}

// Directory is pure bookkeeping: connection-id to declared role/identity plus
// the transport endpoint. The reconciler reads it to know what else must be
// cleaned up for a dying connection.
type Directory struct {
	mu      sync.RWMutex
	entries map[domain.ConnID]*dirEntry
}

func NewDirectory() *Directory {
	return &Directory{entries: make(map[domain.ConnID]*dirEntry)}
}

func (d *Directory) Register(id domain.ConnID, conn SignalConn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[id] = &dirEntry{
		meta: domain.Connection{ID: id, Role: domain.RoleUnassigned},
		conn: conn,
	}
	log.Info().Str("module", "core.directory").Str("conn", string(id)).Msg("registered connection")
}

func (d *Directory) DeclareRole(id domain.ConnID, role domain.Role, identity string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[id]
	if !ok {
		return false
	}
	e.meta.Role = role
	e.meta.Identity = identity
	log.Info().Str("module", "core.directory").Str("conn", string(id)).
		Str("role", string(role)).Str("identity", identity).Msg("declared role")
	return true
}

func (d *Directory) Lookup(id domain.ConnID) (domain.Connection, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if e, ok := d.entries[id]; ok {
		return e.meta, true
	}
	return domain.Connection{}, false
}

// Conn returns the transport endpoint for id. A miss is a normal outcome:
// the target may have disconnected between lookup and send.
func (d *Directory) Conn(id domain.ConnID) (SignalConn, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if e, ok := d.entries[id]; ok {
		return e.conn, true
	}
	return nil, false
}

func (d *Directory) Remove(id domain.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entries, id)
	log.Info().Str("module", "core.directory").Str("conn", string(id)).Msg("removed connection")
}
