// Package app coordinates the realtime consultation flow: presence, the
// matcher handshake, room relays, and disconnect reconciliation. All mutable
// state lives in the core registries owned here; nothing is ambient.
package app

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/core"
	"github.com/healbridge/consult/internal/domain"
	"github.com/healbridge/consult/internal/store"
)

// storeTimeout bounds every durable-store call so a slow collaborator can
// never stall the dispatch path.
const storeTimeout = 5 * time.Second

type Orchestrator struct {
	Directory *core.Directory
	Presence  *core.PresenceRegistry
	Rooms     *core.RoomManager
	Mirror    store.PresenceMirror
	Store     store.ConsultationStore
	Policy    Policy
}

func NewOrchestrator(mirror store.PresenceMirror, st store.ConsultationStore) *Orchestrator {
	return &Orchestrator{
		Directory: core.NewDirectory(),
		Presence:  core.NewPresenceRegistry(),
		Rooms:     core.NewRoomManager(),
		Mirror:    mirror,
		Store:     st,
		Policy:    SimplePolicy{},
	}
}

// Connect registers a fresh connection with the directory.
func (o *Orchestrator) Connect(connID domain.ConnID, conn core.SignalConn) {
	o.Directory.Register(connID, conn)
}

// sendTo marshals v and delivers it to the connection, if it still exists.
// A relay addressed to a dead connection is a normal outcome and is dropped
// silently (debug log only), never an error to the sender.
func (o *Orchestrator) sendTo(connID domain.ConnID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app").Msg("marshal outbound event")
		return
	}
	conn, ok := o.Directory.Conn(connID)
	if !ok {
		log.Debug().Str("module", "app").Str("conn", string(connID)).Msg("send to unknown connection, dropped")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		switch o.Policy.OnBackPressure(connID) {
		case KickMember:
			o.Disconnect(connID)
		case DropFrame, NoAction:
			log.Debug().Err(err).Str("module", "app").Str("conn", string(connID)).Msg("send failed, frame dropped")
		}
	}
}
