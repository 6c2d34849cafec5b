package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healbridge/consult/internal/core"
	"github.com/healbridge/consult/internal/domain"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func TestDirectoryLifecycle(t *testing.T) {
	d := core.NewDirectory()

	d.Register("c-1", nopConn{})

	meta, ok := d.Lookup("c-1")
	require.True(t, ok)
	assert.Equal(t, domain.RoleUnassigned, meta.Role)
	assert.Empty(t, meta.Identity)

	ok = d.DeclareRole("c-1", domain.RoleProvider, "dr-1")
	require.True(t, ok)
	meta, ok = d.Lookup("c-1")
	require.True(t, ok)
	assert.Equal(t, domain.RoleProvider, meta.Role)
	assert.Equal(t, "dr-1", meta.Identity)

	_, ok = d.Conn("c-1")
	assert.True(t, ok)

	d.Remove("c-1")
	_, ok = d.Lookup("c-1")
	assert.False(t, ok)
	_, ok = d.Conn("c-1")
	assert.False(t, ok)
}

func TestDirectoryDeclareUnknownConnection(t *testing.T) {
	d := core.NewDirectory()
	assert.False(t, d.DeclareRole("ghost", domain.RoleSeeker, "u-1"))
}
