// Package domain contains entities without logic, just meta-data.
package domain

type (
	// ConnID identifies one live bidirectional connection. Assigned by the
	// transport on open, never reused.
	ConnID string

	ProviderID string
	SeekerID   string

	// SessionID keys a call room. Minted client-side at accept time.
	SessionID string
)

type Role string

const (
	RoleProvider   Role = "provider"
	RoleSeeker     Role = "seeker"
	RoleUnassigned Role = "unassigned"
)
