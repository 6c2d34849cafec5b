package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/domain"
)

// ProviderOnline declares the provider reachable on this connection. The
// in-memory registry is updated synchronously; the durable mirror write is
// fire-and-forget so a slow store never blocks dispatch. A mirror failure is
// logged and nothing else: in-memory state stays authoritative.
func (o *Orchestrator) ProviderOnline(connID domain.ConnID, providerID domain.ProviderID) {
	o.Directory.DeclareRole(connID, domain.RoleProvider, string(providerID))
	o.Presence.MarkReachable(providerID, connID)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := o.Mirror.SetReachable(ctx, providerID, connID); err != nil {
			log.Error().Err(err).Str("module", "app.presence").
				Str("provider", string(providerID)).Msg("mirror reachable flag")
		}
	}()
}

// ProviderOffline removes the provider from the registry. Idempotent.
func (o *Orchestrator) ProviderOffline(providerID domain.ProviderID) {
	o.Presence.MarkUnreachable(providerID)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := o.Mirror.SetUnreachable(ctx, providerID); err != nil {
			log.Error().Err(err).Str("module", "app.presence").
				Str("provider", string(providerID)).Msg("mirror unreachable flag")
		}
	}()
}
