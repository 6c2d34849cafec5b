package app

import (
	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/domain"
)

// Disconnect reconciles all state tied to a lost connection: presence,
// directory, and room membership. Each step is individually idempotent and
// fault-isolated; a failure in one must never leave the others undone,
// because partial cleanup (presence cleared but room membership stale) is
// exactly the corruption this routine exists to prevent. The end state is
// identical to an explicit offline/leave sequence.
func (o *Orchestrator) Disconnect(connID domain.ConnID) {
	log.Info().Str("module", "app.reconciler").Str("conn", string(connID)).Msg("reconciling disconnect")

	o.step("presence", func() {
		if providerID, ok := o.Presence.ProviderFor(connID); ok {
			o.ProviderOffline(providerID)
			log.Info().Str("module", "app.reconciler").Str("provider", string(providerID)).
				Msg("provider auto-offline on disconnect")
		}
	})

	o.step("rooms", func() {
		for _, sid := range o.Rooms.RoomsOf(connID) {
			remaining, ok := o.Rooms.Leave(sid, connID)
			if !ok {
				continue
			}
			for _, m := range remaining {
				o.sendTo(m.ConnID, struct {
					Type   string        `json:"type"`
					ConnID domain.ConnID `json:"connectionId"`
				}{"user-disconnected", connID})
			}
		}
	})

	o.step("directory", func() {
		o.Directory.Remove(connID)
	})
}

// step runs one reconciliation stage and swallows a panic so the remaining
// stages still execute.
func (o *Orchestrator) step(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "app.reconciler").Str("step", name).
				Any("panic", r).Msg("reconciliation step failed, continuing")
		}
	}()
	fn()
}
