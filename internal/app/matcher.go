package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/domain"
	"github.com/healbridge/consult/internal/store"
)

const unavailableMessage = "No providers available right now. You'll be notified when one becomes available."

// RequestConsultation pairs the seeker with one reachable provider. The
// registry is read fresh here, immediately before addressing the provider:
// a presence entry must never be cached across a suspension point, because
// the provider may have gone offline and back online in the interim.
//
// The server holds no state for the request afterwards. The provider replies
// by addressing the seeker's connection id carried in the notification; the
// seeker's client owns the give-up timeout.
func (o *Orchestrator) RequestConsultation(connID domain.ConnID, seekerID domain.SeekerID, name, email string) {
	o.Directory.DeclareRole(connID, domain.RoleSeeker, string(seekerID))

	entry, ok := o.Presence.FindAnyReachable()
	if !ok {
		log.Info().Str("module", "app.matcher").Str("seeker", string(seekerID)).Msg("no reachable provider")
		o.sendTo(connID, struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}{"consultation-unavailable", unavailableMessage})

		// Best-effort offline record for the provider surface. The seeker
		// already got the definitive answer above.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()
			msg := fmt.Sprintf("Seeker %s requested an instant consultation. Please schedule a time.", name)
			if err := o.Store.CreateOfflineRequestNotification(ctx, seekerID, msg); err != nil {
				log.Error().Err(err).Str("module", "app.matcher").
					Str("seeker", string(seekerID)).Msg("persist offline request")
			}
		}()
		return
	}

	log.Info().Str("module", "app.matcher").Str("seeker", string(seekerID)).
		Str("provider", string(entry.ProviderID)).Msg("consultation request matched")
	o.sendTo(entry.ConnID, struct {
		Type         string          `json:"type"`
		SeekerID     domain.SeekerID `json:"seekerId"`
		SeekerName   string          `json:"seekerName"`
		SeekerEmail  string          `json:"seekerEmail"`
		SeekerConnID domain.ConnID   `json:"seekerConnectionId"`
	}{"incoming-consultation-request", seekerID, name, email, connID})
	// No confirmation to the seeker here: silence until the provider's reply
	// (or the client-local timeout) is part of the protocol.
}

// AcceptConsultation relays the provider's acceptance back to the seeker.
// If the seeker disconnected in the meantime the relay is a silent no-op.
func (o *Orchestrator) AcceptConsultation(seekerConnID domain.ConnID, sessionID domain.SessionID, providerName string) {
	log.Info().Str("module", "app.matcher").Str("seeker_conn", string(seekerConnID)).
		Str("session", string(sessionID)).Str("provider_name", providerName).Msg("consultation accepted")
	o.sendTo(seekerConnID, struct {
		Type         string           `json:"type"`
		SessionID    domain.SessionID `json:"sessionId"`
		ProviderName string           `json:"providerName"`
	}{"consultation-accepted", sessionID, providerName})
}

func (o *Orchestrator) DeclineConsultation(seekerConnID domain.ConnID) {
	o.sendTo(seekerConnID, struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{"consultation-declined", "The provider will schedule a time with you shortly."})
}

// ScheduleConsultation persists the scheduled record and only then relays
// the notice to the seeker. If persistence fails the seeker hears nothing
// and the error is returned so the provider can retry.
func (o *Orchestrator) ScheduleConsultation(providerConnID, seekerConnID domain.ConnID, seekerID domain.SeekerID, date, timeOfDay, providerName, recordID string) error {
	var providerID domain.ProviderID
	if meta, ok := o.Directory.Lookup(providerConnID); ok && meta.Role == domain.RoleProvider {
		providerID = domain.ProviderID(meta.Identity)
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	err := o.Store.CreateScheduledConsultation(ctx, store.ScheduledConsultation{
		ID:         recordID,
		SeekerID:   seekerID,
		ProviderID: providerID,
		Date:       date,
		Time:       timeOfDay,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.matcher").
			Str("seeker", string(seekerID)).Msg("persist scheduled consultation")
		return err
	}

	name := providerName
	if name == "" {
		name = "The provider"
	}
	o.sendTo(seekerConnID, struct {
		Type         string `json:"type"`
		Date         string `json:"scheduledDate"`
		Time         string `json:"scheduledTime"`
		ProviderName string `json:"providerName"`
		Message      string `json:"message"`
	}{
		"consultation-scheduled", date, timeOfDay, providerName,
		fmt.Sprintf("%s has scheduled your consultation for %s at %s.", name, date, timeOfDay),
	})
	return nil
}
