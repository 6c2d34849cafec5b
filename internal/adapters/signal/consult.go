package signal

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/domain"
)

func (ctl *SignalWSController) handleRequestConsultation(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type payload struct {
		Type        string `json:"type"`
		SeekerID    string `json:"seekerId"`
		SeekerName  string `json:"seekerName"`
		SeekerEmail string `json:"seekerEmail"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad request-consultation payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := domain.CheckIdentity(p.SeekerID); err != nil {
		ctl.sendError(conn, "invalid_seeker_id")
		return
	}
	if !ctl.Limiter.Allow(domain.SeekerID(p.SeekerID)) {
		log.Warn().Str("module", "signal").Str("seeker", p.SeekerID).Msg("request rate limited")
		ctl.sendError(conn, "too_many_requests")
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(cid)).
		Str("seeker", p.SeekerID).Msg("consultation requested")
	ctl.Orch.RequestConsultation(cid, domain.SeekerID(p.SeekerID), p.SeekerName, p.SeekerEmail)
}

func (ctl *SignalWSController) handleAcceptConsultation(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type payload struct {
		Type         string `json:"type"`
		SeekerConnID string `json:"seekerConnectionId"`
		SessionID    string `json:"sessionId"`
		ProviderName string `json:"providerName"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad accept-consultation payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.SeekerConnID == "" || p.SessionID == "" {
		ctl.sendError(conn, "bad_payload")
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(cid)).
		Str("session", p.SessionID).Msg("consultation accepted")
	ctl.Orch.AcceptConsultation(domain.ConnID(p.SeekerConnID), domain.SessionID(p.SessionID), p.ProviderName)
}

func (ctl *SignalWSController) handleDeclineConsultation(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type payload struct {
		Type         string `json:"type"`
		SeekerConnID string `json:"seekerConnectionId"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad decline-consultation payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.SeekerConnID == "" {
		ctl.sendError(conn, "bad_payload")
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(cid)).Msg("consultation declined")
	ctl.Orch.DeclineConsultation(domain.ConnID(p.SeekerConnID))
}

func (ctl *SignalWSController) handleScheduleConsultation(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type payload struct {
		Type          string `json:"type"`
		SeekerConnID  string `json:"seekerConnectionId"`
		SeekerID      string `json:"seekerId"`
		ScheduledDate string `json:"scheduledDate"`
		ScheduledTime string `json:"scheduledTime"`
		ProviderName  string `json:"providerName"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad schedule-consultation payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.SeekerConnID == "" || p.ScheduledDate == "" || p.ScheduledTime == "" {
		ctl.sendError(conn, "bad_payload")
		return
	}

	// The record must exist before the seeker is told about it.
	err := ctl.Orch.ScheduleConsultation(
		cid,
		domain.ConnID(p.SeekerConnID),
		domain.SeekerID(p.SeekerID),
		p.ScheduledDate,
		p.ScheduledTime,
		p.ProviderName,
		uuid.NewString(),
	)
	if err != nil {
		ctl.sendError(conn, "schedule_failed")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(cid)).
		Str("date", p.ScheduledDate).Str("time", p.ScheduledTime).Msg("consultation scheduled")
}
