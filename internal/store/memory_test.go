package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/chon/internal/catalog"
	"github.com/robalobadob/chon/internal/game"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	cat, err := catalog.Load(catalog.Files{})
	require.NoError(t, err)
	g, err := game.New(cat, 1)
	require.NoError(t, err)
	return g
}

func TestSaveGet(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g := newGame(t)

	require.NoError(t, st.Save(ctx, g))
	got, err := st.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Same(t, g, got)
	assert.Equal(t, 1, st.Len())

	_, err = st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g := newGame(t)
	require.NoError(t, st.Save(ctx, g))

	require.NoError(t, st.Delete(ctx, g.ID))
	require.NoError(t, st.Delete(ctx, g.ID))
	_, err := st.Get(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, st.Len())
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st := NewMemoryStore()

	assert.ErrorIs(t, st.Save(ctx, newGame(t)), context.Canceled)
	_, err := st.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	games := make([]*game.Game, 8)
	for i := range games {
		games[i] = newGame(t)
	}

	var wg sync.WaitGroup
	for _, g := range games {
		wg.Add(1)
		go func(g *game.Game) {
			defer wg.Done()
			_ = st.Save(ctx, g)
			_, _ = st.Get(ctx, g.ID)
		}(g)
	}
	wg.Wait()
	assert.Equal(t, len(games), st.Len())
}
