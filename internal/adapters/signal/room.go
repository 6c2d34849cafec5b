package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/domain"
)

func (ctl *SignalWSController) handleJoinRoom(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type payload struct {
		Type          string `json:"type"`
		SessionID     string `json:"sessionId"`
		ParticipantID string `json:"participantId"`
		Role          string `json:"participantRole"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-room payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.SessionID == "" {
		ctl.sendError(conn, "bad_payload")
		return
	}
	role := domain.Role(p.Role)
	if role != domain.RoleProvider && role != domain.RoleSeeker {
		role = domain.RoleUnassigned
	}

	log.Info().Str("module", "signal").Str("conn", string(cid)).
		Str("session", p.SessionID).Str("participant", p.ParticipantID).Msg("join room")
	ctl.Orch.JoinRoom(cid, domain.SessionID(p.SessionID), p.ParticipantID, role)
}

func (ctl *SignalWSController) handleLeaveRoom(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type payload struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave-room payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.SessionID == "" {
		ctl.sendError(conn, "bad_payload")
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(cid)).
		Str("session", p.SessionID).Msg("leave room")
	ctl.Orch.LeaveRoom(cid, domain.SessionID(p.SessionID))
}

func (ctl *SignalWSController) handleSendingSignal(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type payload struct {
		Type         string          `json:"type"`
		TargetConnID string          `json:"targetConnectionId"`
		Signal       json.RawMessage `json:"signal"`
		CallerConnID string          `json:"callerConnectionId"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad sending-signal payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.TargetConnID == "" || len(p.Signal) == 0 {
		ctl.sendError(conn, "bad_payload")
		return
	}
	caller := domain.ConnID(p.CallerConnID)
	if caller == "" {
		caller = cid
	}

	ctl.Orch.RelaySignal(domain.ConnID(p.TargetConnID), caller, p.Signal)
}

func (ctl *SignalWSController) handleReturningSignal(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type payload struct {
		Type         string          `json:"type"`
		Signal       json.RawMessage `json:"signal"`
		CallerConnID string          `json:"callerConnectionId"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad returning-signal payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.CallerConnID == "" || len(p.Signal) == 0 {
		ctl.sendError(conn, "bad_payload")
		return
	}

	ctl.Orch.ReturnSignal(cid, domain.ConnID(p.CallerConnID), p.Signal)
}

func (ctl *SignalWSController) handleEndCall(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type payload struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad end-call payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.SessionID == "" {
		ctl.sendError(conn, "bad_payload")
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(cid)).
		Str("session", p.SessionID).Msg("end call")
	ctl.Orch.EndCall(cid, domain.SessionID(p.SessionID))
}
