// Package store holds the durable collaborators of the signaling core. The
// in-memory registries stay authoritative for live routing; everything here
// is a mirror or a side record for the surrounding system.
package store

import (
	"context"
	"time"

	"github.com/healbridge/consult/internal/domain"
)

// ProviderSummary is the durable-store view of a reachable provider, used by
// admin/display surfaces only.
type ProviderSummary struct {
	ProviderID domain.ProviderID `json:"providerId"`
	ConnID     domain.ConnID     `json:"connectionId"`
	Online     bool              `json:"online"`
}

// PresenceMirror persists the reachable flag. Writes are best-effort: a
// failure is logged by the caller and never rolls back in-memory state.
type PresenceMirror interface {
	SetReachable(ctx context.Context, providerID domain.ProviderID, connID domain.ConnID) error
	SetUnreachable(ctx context.Context, providerID domain.ProviderID) error

	// FindOneReachableProvider returns nil when no provider is mirrored
	// online (not an error).
	FindOneReachableProvider(ctx context.Context) (*ProviderSummary, error)
}

type ScheduledConsultation struct {
	ID         string            `json:"id"`
	SeekerID   domain.SeekerID   `json:"seekerId"`
	ProviderID domain.ProviderID `json:"providerId"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	CreatedAt  time.Time         `json:"createdAt"`
}

type Notification struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConsultationStore persists scheduled consultations and seeker
// notifications. CreateScheduledConsultation must succeed before the
// realtime consultation-scheduled relay goes out; the offline-request
// notification is fire-and-forget.
type ConsultationStore interface {
	CreateScheduledConsultation(ctx context.Context, rec ScheduledConsultation) error
	CreateOfflineRequestNotification(ctx context.Context, seekerID domain.SeekerID, message string) error
	Notifications(ctx context.Context, seekerID domain.SeekerID) ([]Notification, error)
}
