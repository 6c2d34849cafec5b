package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/domain"
)

// room keeps members in join order. Membership only; it never touches
// transport resources or inspects signal payloads.
type room struct {
	members []domain.Participant
}

func (r *room) find(connID domain.ConnID) int {
	for i, m := range r.members {
		if m.ConnID == connID {
			return i
		}
	}
	return -1
}

// RoomManager tracks call rooms keyed by session id. A room exists exactly
// while it has members: created on first join, deleted the moment the last
// member leaves.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[domain.SessionID]*room
}

func NewRoomManager() *RoomManager {
	return &RoomManager{rooms: make(map[domain.SessionID]*room)}
}

// Join adds the participant and returns the members that were already
// present, in join order. The caller announces each of them to the newcomer,
// which elects the newcomer as handshake initiator. Re-joining with the same
// connection id replaces the previous membership.
func (rm *RoomManager) Join(sid domain.SessionID, p domain.Participant) []domain.Participant {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r, ok := rm.rooms[sid]
	if !ok {
		r = &room{}
		rm.rooms[sid] = r
	}
	if i := r.find(p.ConnID); i >= 0 {
		r.members = append(r.members[:i], r.members[i+1:]...)
	}
	others := make([]domain.Participant, len(r.members))
	copy(others, r.members)
	r.members = append(r.members, p)
	log.Info().Str("module", "core.room").Str("session", string(sid)).
		Str("conn", string(p.ConnID)).Int("members", len(r.members)).Msg("member joined")
	return others
}

// Leave removes the connection from the room. It returns the remaining
// members and whether the connection was actually a member. An empty room is
// deleted immediately.
func (rm *RoomManager) Leave(sid domain.SessionID, connID domain.ConnID) ([]domain.Participant, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r, ok := rm.rooms[sid]
	if !ok {
		return nil, false
	}
	i := r.find(connID)
	if i < 0 {
		return nil, false
	}
	r.members = append(r.members[:i], r.members[i+1:]...)
	if len(r.members) == 0 {
		delete(rm.rooms, sid)
		log.Info().Str("module", "core.room").Str("session", string(sid)).Msg("room empty, deleted")
		return nil, true
	}
	remaining := make([]domain.Participant, len(r.members))
	copy(remaining, r.members)
	return remaining, true
}

// Members returns a snapshot of the room, nil if it does not exist.
func (rm *RoomManager) Members(sid domain.SessionID) []domain.Participant {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	r, ok := rm.rooms[sid]
	if !ok {
		return nil
	}
	out := make([]domain.Participant, len(r.members))
	copy(out, r.members)
	return out
}

// RoomsOf lists every session the connection is currently a member of.
func (rm *RoomManager) RoomsOf(connID domain.ConnID) []domain.SessionID {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	var out []domain.SessionID
	for sid, r := range rm.rooms {
		if r.find(connID) >= 0 {
			out = append(out, sid)
		}
	}
	return out
}

type RoomInfo struct {
	Session     domain.SessionID `json:"session"`
	MemberCount int              `json:"member_count"`
}

func (rm *RoomManager) List() []RoomInfo {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	out := make([]RoomInfo, 0, len(rm.rooms))
	for sid, r := range rm.rooms {
		out = append(out, RoomInfo{Session: sid, MemberCount: len(r.members)})
	}
	return out
}
