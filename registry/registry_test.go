package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/slashkit/schema"
)

func mustCommand(t *testing.T, name string, decl schema.Declaration) *schema.Command {
	t.Helper()
	c, err := schema.NewCommand(name, decl)
	require.NoError(t, err)
	return c
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	c := mustCommand(t, "roll", schema.Declaration{Description: "roll"})
	r.Register(c)

	got, ok := r.Get("roll")
	require.True(t, ok)
	assert.Same(t, c, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegisterReplacesSameName(t *testing.T) {
	r := NewRegistry()
	r.Register(mustCommand(t, "roll", schema.Declaration{Description: "old"}))
	updated := mustCommand(t, "roll", schema.Declaration{Description: "new"})
	r.Register(updated)

	got, ok := r.Get("roll")
	require.True(t, ok)
	assert.Same(t, updated, got)
	assert.Len(t, r.All(), 1)
}

func TestAllSortedByName(t *testing.T) {
	r := NewRegistry()
	r.Register(mustCommand(t, "zeta", schema.Declaration{}))
	r.Register(mustCommand(t, "alpha", schema.Declaration{}))
	r.Register(mustCommand(t, "mid", schema.Declaration{}))

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}
