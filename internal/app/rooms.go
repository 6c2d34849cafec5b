package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/domain"
)

// rawSignal keeps negotiation payloads opaque end to end. The server never
// inspects them; only the two peer endpoints understand their contents.
type rawSignal = json.RawMessage

// JoinRoom adds the connection to the session's room. Every member already
// present is announced to the newcomer with one other-user event each; the
// pre-existing members hear nothing, which makes the newcomer the handshake
// initiator. A 1:1 call means at most one such event, but nothing caps the
// membership here.
func (o *Orchestrator) JoinRoom(connID domain.ConnID, sessionID domain.SessionID, userID string, role domain.Role) {
	others := o.Rooms.Join(sessionID, domain.Participant{ConnID: connID, UserID: userID, Role: role})
	for _, other := range others {
		o.sendTo(connID, struct {
			Type   string        `json:"type"`
			ConnID domain.ConnID `json:"connectionId"`
		}{"other-user", other.ConnID})
	}
}

// LeaveRoom removes the connection and tells whoever is left. Produces the
// same end state as losing the connection outright.
func (o *Orchestrator) LeaveRoom(connID domain.ConnID, sessionID domain.SessionID) {
	remaining, ok := o.Rooms.Leave(sessionID, connID)
	if !ok {
		return
	}
	for _, m := range remaining {
		o.sendTo(m.ConnID, struct {
			Type   string        `json:"type"`
			ConnID domain.ConnID `json:"connectionId"`
		}{"user-disconnected", connID})
	}
}

// RelaySignal forwards an initiator's negotiation blob to the explicit
// target. Used for the initial offer and any trickled follow-up; the payload
// is never parsed here.
func (o *Orchestrator) RelaySignal(targetConnID, callerConnID domain.ConnID, signal rawSignal) {
	log.Debug().Str("module", "app.rooms").Str("from", string(callerConnID)).
		Str("to", string(targetConnID)).Msg("relaying signal")
	o.sendTo(targetConnID, struct {
		Type   string        `json:"type"`
		Signal rawSignal     `json:"signal"`
		Caller domain.ConnID `json:"callerConnectionId"`
	}{"user-joined", signal, callerConnID})
}

// ReturnSignal forwards the responder's blob back to the caller that
// initiated the handshake.
func (o *Orchestrator) ReturnSignal(fromConnID, callerConnID domain.ConnID, signal rawSignal) {
	log.Debug().Str("module", "app.rooms").Str("from", string(fromConnID)).
		Str("to", string(callerConnID)).Msg("returning signal")
	o.sendTo(callerConnID, struct {
		Type   string        `json:"type"`
		Signal rawSignal     `json:"signal"`
		From   domain.ConnID `json:"fromConnectionId"`
	}{"receiving-returned-signal", signal, fromConnID})
}

// EndCall notifies every other member of the room. The room itself survives
// until members actually leave or disconnect; the sender's client is
// expected to drop the connection right after, which triggers reconciliation.
func (o *Orchestrator) EndCall(connID domain.ConnID, sessionID domain.SessionID) {
	for _, m := range o.Rooms.Members(sessionID) {
		if m.ConnID == connID {
			continue
		}
		o.sendTo(m.ConnID, struct {
			Type string `json:"type"`
		}{"call-ended"})
	}
}
