package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/domain"
)

func (ctl *SignalWSController) handleProviderOnline(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type payload struct {
		Type       string `json:"type"`
		ProviderID string `json:"providerId"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad provider-online payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := domain.CheckIdentity(p.ProviderID); err != nil {
		ctl.sendError(conn, "invalid_provider_id")
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(cid)).
		Str("provider", p.ProviderID).Msg("provider online")
	ctl.Orch.ProviderOnline(cid, domain.ProviderID(p.ProviderID))
}

func (ctl *SignalWSController) handleProviderOffline(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type payload struct {
		Type       string `json:"type"`
		ProviderID string `json:"providerId"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad provider-offline payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.ProviderID == "" {
		ctl.sendError(conn, "invalid_provider_id")
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(cid)).
		Str("provider", p.ProviderID).Msg("provider offline")
	ctl.Orch.ProviderOffline(domain.ProviderID(p.ProviderID))
}
