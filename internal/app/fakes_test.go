package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/healbridge/consult/internal/app"
	"github.com/healbridge/consult/internal/core"
	"github.com/healbridge/consult/internal/domain"
	"github.com/healbridge/consult/internal/store"
)

// fakeConn records every frame delivered to it.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make(core.Frame, len(f))
	copy(cp, f)
	c.frames = append(c.frames, cp)
	return nil
}

func (c *fakeConn) Close() {}

func (c *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(f, &m))
		out = append(out, m)
	}
	return out
}

func (c *fakeConn) eventsOfType(t *testing.T, typ string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, e := range c.events(t) {
		if e["type"] == typ {
			out = append(out, e)
		}
	}
	return out
}

type fakeMirror struct {
	mu          sync.Mutex
	reachable   map[domain.ProviderID]domain.ConnID
	unreachable []domain.ProviderID
	err         error
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{reachable: make(map[domain.ProviderID]domain.ConnID)}
}

func (m *fakeMirror) SetReachable(_ context.Context, providerID domain.ProviderID, connID domain.ConnID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reachable[providerID] = connID
	return nil
}

func (m *fakeMirror) SetUnreachable(_ context.Context, providerID domain.ProviderID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.reachable, providerID)
	m.unreachable = append(m.unreachable, providerID)
	return nil
}

func (m *fakeMirror) FindOneReachableProvider(context.Context) (*store.ProviderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, conn := range m.reachable {
		return &store.ProviderSummary{ProviderID: id, ConnID: conn, Online: true}, nil
	}
	return nil, nil
}

type fakeStore struct {
	mu        sync.Mutex
	scheduled []store.ScheduledConsultation
	offline   []domain.SeekerID
	failNext  bool
}

var errStoreDown = errors.New("store down")

func (s *fakeStore) CreateScheduledConsultation(_ context.Context, rec store.ScheduledConsultation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return errStoreDown
	}
	s.scheduled = append(s.scheduled, rec)
	return nil
}

func (s *fakeStore) CreateOfflineRequestNotification(_ context.Context, seekerID domain.SeekerID, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offline = append(s.offline, seekerID)
	return nil
}

func (s *fakeStore) Notifications(context.Context, domain.SeekerID) ([]store.Notification, error) {
	return nil, nil
}

func (s *fakeStore) offlineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.offline)
}

func newTestOrch() (*app.Orchestrator, *fakeMirror, *fakeStore) {
	mirror := newFakeMirror()
	st := &fakeStore{}
	return app.NewOrchestrator(mirror, st), mirror, st
}

func connect(o *app.Orchestrator, id string) *fakeConn {
	c := &fakeConn{}
	o.Connect(domain.ConnID(id), c)
	return c
}
