package app

import "github.com/healbridge/consult/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens when a connection's send buffer is full.
type Policy interface {
	OnBackPressure(connID domain.ConnID) BackpressureAction
}

// SimplePolicy drops the frame. A slow receiver must not stall the dispatch
// path or tear down an otherwise healthy call.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.ConnID) BackpressureAction {
	return DropFrame
}
