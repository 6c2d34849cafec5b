package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/domain"
)

// PresenceRegistry is the authoritative in-memory map of reachable providers.
// The durable mirror is display-only; live routing always goes through here.
type PresenceRegistry struct {
	mu         sync.RWMutex
	byProvider map[domain.ProviderID]domain.PresenceEntry
	byConn     map[domain.ConnID]domain.ProviderID
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		byProvider: make(map[domain.ProviderID]domain.PresenceEntry),
		byConn:     make(map[domain.ConnID]domain.ProviderID),
	}
}

// MarkReachable replaces any existing entry for the provider. A reconnect
// under a new connection id supersedes the old one, it never multiplies.
func (p *PresenceRegistry) MarkReachable(providerID domain.ProviderID, connID domain.ConnID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old, ok := p.byProvider[providerID]; ok {
		delete(p.byConn, old.ConnID)
	}
	p.byProvider[providerID] = domain.PresenceEntry{ProviderID: providerID, ConnID: connID}
	p.byConn[connID] = providerID
	log.Info().Str("module", "core.presence").Str("provider", string(providerID)).
		Str("conn", string(connID)).Msg("provider reachable")
}

// MarkUnreachable removes the entry. Calling it for an absent provider is a
// no-op.
func (p *PresenceRegistry) MarkUnreachable(providerID domain.ProviderID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.byProvider[providerID]
	if !ok {
		return
	}
	delete(p.byConn, e.ConnID)
	delete(p.byProvider, providerID)
	log.Info().Str("module", "core.presence").Str("provider", string(providerID)).Msg("provider unreachable")
}

// FindAnyReachable returns an arbitrary reachable provider. First-found, no
// fairness or load balancing; concurrent seekers may be pointed at the same
// provider.
func (p *PresenceRegistry) FindAnyReachable() (domain.PresenceEntry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, e := range p.byProvider {
		return e, true
	}
	return domain.PresenceEntry{}, false
}

func (p *PresenceRegistry) ConnectionFor(providerID domain.ProviderID) (domain.ConnID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if e, ok := p.byProvider[providerID]; ok {
		return e.ConnID, true
	}
	return "", false
}

// ProviderFor reports which provider, if any, is recorded against connID.
// The reconciler uses this on disconnect.
func (p *PresenceRegistry) ProviderFor(connID domain.ConnID) (domain.ProviderID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.byConn[connID]
	return id, ok
}
