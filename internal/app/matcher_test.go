package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healbridge/consult/internal/domain"
)

func TestRequestConsultationNoProviderAvailable(t *testing.T) {
	orch, _, st := newTestOrch()
	seeker := connect(orch, "c-seeker")

	orch.RequestConsultation("c-seeker", "u1", "Ann", "a@x.com")

	events := seeker.eventsOfType(t, "consultation-unavailable")
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0]["message"])

	// The offline record is fire-and-forget, so give it a moment.
	require.Eventually(t, func() bool { return st.offlineCount() == 1 },
		time.Second, 10*time.Millisecond, "offline request notification not persisted")
}

func TestConsultationAcceptFlow(t *testing.T) {
	orch, _, _ := newTestOrch()
	provider := connect(orch, "c-provider")
	seeker := connect(orch, "c-seeker")

	orch.ProviderOnline("c-provider", "dr-1")
	orch.RequestConsultation("c-seeker", "u1", "Ann", "a@x.com")

	incoming := provider.eventsOfType(t, "incoming-consultation-request")
	require.Len(t, incoming, 1)
	assert.Equal(t, "u1", incoming[0]["seekerId"])
	assert.Equal(t, "Ann", incoming[0]["seekerName"])
	assert.Equal(t, "a@x.com", incoming[0]["seekerEmail"])
	assert.Equal(t, "c-seeker", incoming[0]["seekerConnectionId"])

	// No confirmation to the seeker until the provider replies.
	assert.Empty(t, seeker.events(t))

	orch.AcceptConsultation("c-seeker", "sess-1", "Dr. X")

	accepted := seeker.eventsOfType(t, "consultation-accepted")
	require.Len(t, accepted, 1)
	assert.Equal(t, "sess-1", accepted[0]["sessionId"])
	assert.Equal(t, "Dr. X", accepted[0]["providerName"])
}

func TestDeclineConsultation(t *testing.T) {
	orch, _, _ := newTestOrch()
	seeker := connect(orch, "c-seeker")

	orch.DeclineConsultation("c-seeker")

	require.Len(t, seeker.eventsOfType(t, "consultation-declined"), 1)
}

func TestProviderReplyAfterSeekerDisconnected(t *testing.T) {
	orch, _, _ := newTestOrch()
	provider := connect(orch, "c-provider")
	connect(orch, "c-seeker")

	orch.ProviderOnline("c-provider", "dr-1")
	orch.RequestConsultation("c-seeker", "u1", "Ann", "a@x.com")
	orch.Disconnect("c-seeker")

	// The late reply targets a dead connection: silent no-op, nothing
	// reflected back to the provider.
	orch.AcceptConsultation("c-seeker", "sess-1", "Dr. X")

	require.Len(t, provider.eventsOfType(t, "incoming-consultation-request"), 1)
	assert.Len(t, provider.events(t), 1)
}

func TestProviderOfflineStopsMatching(t *testing.T) {
	orch, _, _ := newTestOrch()
	provider := connect(orch, "c-provider")
	seeker := connect(orch, "c-seeker")

	orch.ProviderOnline("c-provider", "dr-1")
	orch.ProviderOffline("dr-1")
	orch.RequestConsultation("c-seeker", "u1", "Ann", "a@x.com")

	assert.Empty(t, provider.events(t))
	require.Len(t, seeker.eventsOfType(t, "consultation-unavailable"), 1)
}

func TestPresenceMirroredOnOnline(t *testing.T) {
	orch, mirror, _ := newTestOrch()
	connect(orch, "c-provider")

	orch.ProviderOnline("c-provider", "dr-1")

	require.Eventually(t, func() bool {
		summary, err := mirror.FindOneReachableProvider(context.Background())
		return err == nil && summary != nil && summary.ProviderID == "dr-1"
	}, time.Second, 10*time.Millisecond)
}

func TestScheduleConsultationPersistsBeforeRelay(t *testing.T) {
	orch, _, st := newTestOrch()
	connect(orch, "c-provider")
	seeker := connect(orch, "c-seeker")
	orch.ProviderOnline("c-provider", "dr-1")

	err := orch.ScheduleConsultation("c-provider", "c-seeker", "u1", "2025-03-10", "10:30", "Dr. X", "rec-1")
	require.NoError(t, err)

	require.Len(t, st.scheduled, 1)
	assert.Equal(t, domain.SeekerID("u1"), st.scheduled[0].SeekerID)
	assert.Equal(t, domain.ProviderID("dr-1"), st.scheduled[0].ProviderID)

	scheduled := seeker.eventsOfType(t, "consultation-scheduled")
	require.Len(t, scheduled, 1)
	assert.Equal(t, "2025-03-10", scheduled[0]["scheduledDate"])
	assert.Equal(t, "10:30", scheduled[0]["scheduledTime"])
	assert.Equal(t, "Dr. X", scheduled[0]["providerName"])
}

func TestScheduleConsultationPersistFailure(t *testing.T) {
	orch, _, st := newTestOrch()
	connect(orch, "c-provider")
	seeker := connect(orch, "c-seeker")
	st.failNext = true

	err := orch.ScheduleConsultation("c-provider", "c-seeker", "u1", "2025-03-10", "10:30", "Dr. X", "rec-1")
	require.Error(t, err)

	// No record, no relay: the seeker must never hear about a schedule that
	// does not exist.
	assert.Empty(t, st.scheduled)
	assert.Empty(t, seeker.events(t))
}
