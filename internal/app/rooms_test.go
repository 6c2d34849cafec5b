package app_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healbridge/consult/internal/domain"
)

func TestJoinAnnouncesExistingMemberToNewcomerOnly(t *testing.T) {
	orch, _, _ := newTestOrch()
	a := connect(orch, "c-a")
	b := connect(orch, "c-b")

	orch.JoinRoom("c-a", "s1", "u-a", domain.RoleSeeker)
	orch.JoinRoom("c-b", "s1", "u-b", domain.RoleProvider)

	other := b.eventsOfType(t, "other-user")
	require.Len(t, other, 1, "newcomer gets exactly one announcement")
	assert.Equal(t, "c-a", other[0]["connectionId"])
	assert.Empty(t, a.eventsOfType(t, "other-user"), "pre-existing member hears nothing")
}

func TestSendingSignalRelay(t *testing.T) {
	orch, _, _ := newTestOrch()
	connect(orch, "c-first")
	second := connect(orch, "c-second")

	orch.JoinRoom("c-first", "sess-1", "u-a", domain.RoleSeeker)
	orch.JoinRoom("c-second", "sess-1", "u-b", domain.RoleProvider)

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	orch.RelaySignal("c-second", "c-first", offer)

	joined := second.eventsOfType(t, "user-joined")
	require.Len(t, joined, 1)
	assert.Equal(t, "c-first", joined[0]["callerConnectionId"])
	sig, ok := joined[0]["signal"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "offer", sig["type"])
	assert.Equal(t, "v=0", sig["sdp"])
}

func TestReturningSignalRelay(t *testing.T) {
	orch, _, _ := newTestOrch()
	first := connect(orch, "c-first")
	connect(orch, "c-second")

	answer := json.RawMessage(`{"type":"answer","sdp":"v=0"}`)
	orch.ReturnSignal("c-second", "c-first", answer)

	returned := first.eventsOfType(t, "receiving-returned-signal")
	require.Len(t, returned, 1)
	assert.Equal(t, "c-second", returned[0]["fromConnectionId"])
}

func TestRelayToDeadConnectionIsSilent(t *testing.T) {
	orch, _, _ := newTestOrch()
	first := connect(orch, "c-first")
	connect(orch, "c-gone")
	orch.Disconnect("c-gone")

	// Neither relay direction may error or leak a message anywhere.
	orch.RelaySignal("c-gone", "c-first", json.RawMessage(`{"type":"offer"}`))
	orch.ReturnSignal("c-first", "c-gone", json.RawMessage(`{"type":"answer"}`))

	assert.Empty(t, first.events(t))
}

func TestEndCallNotifiesEveryOtherMember(t *testing.T) {
	orch, _, _ := newTestOrch()
	a := connect(orch, "c-a")
	b := connect(orch, "c-b")
	c := connect(orch, "c-c")

	orch.JoinRoom("c-a", "s1", "u-a", domain.RoleSeeker)
	orch.JoinRoom("c-b", "s1", "u-b", domain.RoleProvider)
	orch.JoinRoom("c-c", "s1", "u-c", domain.RoleUnassigned)

	orch.EndCall("c-a", "s1")

	assert.Empty(t, a.eventsOfType(t, "call-ended"), "sender is not notified")
	assert.Len(t, b.eventsOfType(t, "call-ended"), 1)
	assert.Len(t, c.eventsOfType(t, "call-ended"), 1)

	// end-call alone does not tear the room down.
	assert.Len(t, orch.Rooms.Members("s1"), 3)
}

func TestLeaveRoomNotifiesRemaining(t *testing.T) {
	orch, _, _ := newTestOrch()
	connect(orch, "c-a")
	b := connect(orch, "c-b")

	orch.JoinRoom("c-a", "s1", "u-a", domain.RoleSeeker)
	orch.JoinRoom("c-b", "s1", "u-b", domain.RoleProvider)

	orch.LeaveRoom("c-a", "s1")

	gone := b.eventsOfType(t, "user-disconnected")
	require.Len(t, gone, 1)
	assert.Equal(t, "c-a", gone[0]["connectionId"])

	orch.LeaveRoom("c-b", "s1")
	assert.Nil(t, orch.Rooms.Members("s1"))
}
