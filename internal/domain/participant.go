package domain

import "errors"

const MaxUserIDLen = 64

var (
	ErrIdentityEmpty   = errors.New("identity empty")
	ErrIdentityTooLong = errors.New("identity too long")
)

// Connection is the directory's view of a live channel: who is on the other
// end, once they declared themselves.
type Connection struct {
	ID       ConnID
	Role     Role
	Identity string // provider-id or seeker-id, empty until declared
}

// Participant is one member of a call room.
type Participant struct {
	ConnID ConnID `json:"connectionId"`
	UserID string `json:"participantId"`
	Role   Role   `json:"participantRole"`
}

// PresenceEntry records a provider believed reachable. At most one per
// provider at a time.
type PresenceEntry struct {
	ProviderID ProviderID
	ConnID     ConnID
}

// CheckIdentity validates a caller-supplied identity string before it enters
// the directory or registry.
func CheckIdentity(id string) error {
	if len(id) == 0 {
		return ErrIdentityEmpty
	}
	if len(id) > MaxUserIDLen {
		return ErrIdentityTooLong
	}
	return nil
}
