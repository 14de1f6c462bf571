package blocked

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/banca-service/gametype"
	"github.com/sorteweb/banca-platform/internal/banca-service/registry"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
)

func newFixture(t *testing.T) (*Registry, *registry.Games, repo.Game) {
	t.Helper()
	ctx := context.Background()
	store := repo.NewMemory()

	games := registry.NewGames(zap.NewNop(), store)
	require.NoError(t, games.Load(ctx))
	game, err := games.Create(ctx, repo.Game{Nome: "Milhar Principal", Tipo: gametype.Milhar, Ativo: true})
	require.NoError(t, err)

	r := NewRegistry(zap.NewNop(), store, games, nil)
	require.NoError(t, r.Load(ctx))
	return r, games, game
}

func TestAddAndIsBlocked(t *testing.T) {
	r, _, game := newFixture(t)
	ctx := context.Background()

	b, err := r.Add(ctx, game.ID, "1234")
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)

	assert.True(t, r.IsBlocked(ctx, game.ID, "1234"))
	assert.False(t, r.IsBlocked(ctx, game.ID, "4321"))
	assert.False(t, r.IsBlocked(ctx, "outro-jogo", "1234"))
}

func TestAddIsIdempotent(t *testing.T) {
	r, _, game := newFixture(t)
	ctx := context.Background()

	first, err := r.Add(ctx, game.ID, "1234")
	require.NoError(t, err)
	second, err := r.Add(ctx, game.ID, "1234")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, r.ByGame(game.ID), 1)
}

func TestAddValidatesDigitsAgainstGameType(t *testing.T) {
	r, _, game := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		numero string
	}{
		{"curto", "123"},
		{"longo", "12345"},
		{"nao numerico", "12ab"},
		{"vazio", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Add(ctx, game.ID, tt.numero)
			require.ErrorIs(t, err, ErrNumeroInvalido)
		})
	}
}

func TestAddUnknownGame(t *testing.T) {
	r, _, _ := newFixture(t)
	_, err := r.Add(context.Background(), "nao-existe", "1234")
	require.ErrorIs(t, err, ErrGameNotFound)
}

func TestRemove(t *testing.T) {
	r, _, game := newFixture(t)
	ctx := context.Background()

	b, err := r.Add(ctx, game.ID, "5678")
	require.NoError(t, err)
	require.True(t, r.IsBlocked(ctx, game.ID, "5678"))

	require.NoError(t, r.Remove(ctx, b.ID))
	assert.False(t, r.IsBlocked(ctx, game.ID, "5678"))
	assert.Empty(t, r.ByGame(game.ID))
}
