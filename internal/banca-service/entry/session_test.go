package entry

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/banca-service/blocked"
	"github.com/sorteweb/banca-platform/internal/banca-service/gametype"
	"github.com/sorteweb/banca-platform/internal/banca-service/ledger"
	"github.com/sorteweb/banca-platform/internal/banca-service/registry"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
)

type fixture struct {
	store   *repo.Memory
	games   *registry.Games
	blocked *blocked.Registry
	ledger  *ledger.Ledger
	session *Session
	milhar  repo.Game
	dezena  repo.Game
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := repo.NewMemory()

	games := registry.NewGames(zap.NewNop(), store)
	require.NoError(t, games.Load(ctx))
	milhar, err := games.Create(ctx, repo.Game{Nome: "Milhar Principal", Tipo: gametype.Milhar, Multiplicador: 4000, Ativo: true})
	require.NoError(t, err)
	dezena, err := games.Create(ctx, repo.Game{Nome: "Dezena da Noite", Tipo: gametype.Dezena, Multiplicador: 60, Ativo: true})
	require.NoError(t, err)

	blk := blocked.NewRegistry(zap.NewNop(), store, games, nil)
	require.NoError(t, blk.Load(ctx))

	led := ledger.New(zap.NewNop(), store, nil)
	require.NoError(t, led.Load(ctx))

	return &fixture{
		store:   store,
		games:   games,
		blocked: blk,
		ledger:  led,
		session: NewSession("vend-1", "João", blk),
		milhar:  milhar,
		dezena:  dezena,
	}
}

// falha a partir da n-ésima gravação (contada de 1)
type flakyCreator struct {
	inner   BetCreator
	failAt  int
	current int
}

func (f *flakyCreator) Create(ctx context.Context, in ledger.Input) (repo.Bet, error) {
	f.current++
	if f.current >= f.failAt {
		return repo.Bet{}, errors.New("storage down")
	}
	return f.inner.Create(ctx, in)
}

func TestAddRequiresGame(t *testing.T) {
	f := newFixture(t)
	_, err := f.session.Add(context.Background(), "1234", 2)
	require.ErrorIs(t, err, ErrNoGameSelected)
	assert.Equal(t, StateIdle, f.session.State())
}

func TestSelectGameEnablesEntry(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SelectGame(f.milhar))
	assert.Equal(t, StateGameSelected, f.session.State())

	e, err := f.session.Add(context.Background(), "5678", 2)
	require.NoError(t, err)
	assert.Equal(t, "5678", e.Numero)
	assert.Equal(t, StateAccumulating, f.session.State())
}

func TestSelectInactiveGame(t *testing.T) {
	f := newFixture(t)
	g := f.milhar
	g.Ativo = false
	require.ErrorIs(t, f.session.SelectGame(g), ErrGameInactive)
}

func TestAddRejectsWrongDigits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.session.SelectGame(f.milhar))

	for _, numero := range []string{"123", "12345", "12a4", ""} {
		_, err := f.session.Add(ctx, numero, 2)
		require.ErrorIs(t, err, ErrNumeroInvalido, "numero %q", numero)
	}
	assert.Empty(t, f.session.Entries())
}

func TestAddRejectsBlockedNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.blocked.Add(ctx, f.milhar.ID, "1234")
	require.NoError(t, err)

	require.NoError(t, f.session.SelectGame(f.milhar))
	_, err = f.session.Add(ctx, "1234", 2)
	require.ErrorIs(t, err, ErrNumeroBloqueado)
	assert.Empty(t, f.session.Entries())
}

func TestAddRejectsNegativeStake(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SelectGame(f.milhar))
	_, err := f.session.Add(context.Background(), "5678", -1)
	require.ErrorIs(t, err, ErrValorInvalido)
}

func TestDeferredStakeBlocksSubmitUntilCorrected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.session.SelectGame(f.milhar))

	e, err := f.session.Add(ctx, "5678", 0)
	require.NoError(t, err, "valor adiado é aceito na fila")

	_, err = f.session.Submit(ctx, f.ledger)
	require.ErrorIs(t, err, ErrValorPendente)
	assert.Equal(t, StateAccumulating, f.session.State())
	assert.Len(t, f.session.Entries(), 1, "fila preservada")
	assert.Empty(t, f.ledger.All(), "nada gravado")

	require.NoError(t, f.session.SetStake(e.ID, 2.5))
	bets, err := f.session.Submit(ctx, f.ledger)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.InDelta(t, 2.5, bets[0].Valor, 0.001)
}

func TestSwitchingGameClearsQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.session.SelectGame(f.milhar))
	_, err := f.session.Add(ctx, "5678", 2)
	require.NoError(t, err)

	require.NoError(t, f.session.SelectGame(f.dezena))
	assert.Empty(t, f.session.Entries())
	assert.Equal(t, StateGameSelected, f.session.State())

	// contexto novo: dezena exige 2 dígitos
	_, err = f.session.Add(ctx, "77", 5)
	require.NoError(t, err)
}

func TestRemoveAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.session.SelectGame(f.milhar))
	e, err := f.session.Add(ctx, "5678", 2)
	require.NoError(t, err)

	require.NoError(t, f.session.Remove(e.ID))
	assert.Equal(t, StateGameSelected, f.session.State())
	require.ErrorIs(t, f.session.Remove(e.ID), ErrEntradaNaoAchada)

	_, err = f.session.Add(ctx, "5678", 2)
	require.NoError(t, err)
	f.session.Clear()
	assert.Empty(t, f.session.Entries())
	assert.Equal(t, StateGameSelected, f.session.State())
}

func TestSubmitHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.blocked.Add(ctx, f.milhar.ID, "1234")
	require.NoError(t, err)

	require.NoError(t, f.session.SelectGame(f.milhar))

	// número bloqueado é rejeitado na entrada
	_, err = f.session.Add(ctx, "1234", 2)
	require.ErrorIs(t, err, ErrNumeroBloqueado)

	_, err = f.session.Add(ctx, "5678", 2)
	require.NoError(t, err)
	_, err = f.session.Add(ctx, "9012", 3)
	require.NoError(t, err)
	assert.Len(t, f.session.Entries(), 2)
	assert.InDelta(t, 5, f.session.Total(), 0.001)

	bets, err := f.session.Submit(ctx, f.ledger)
	require.NoError(t, err)
	require.Len(t, bets, 2)

	codigoRe := regexp.MustCompile(`^[A-Z0-9]{8}$`)
	seen := map[string]bool{}
	for _, b := range bets {
		assert.Regexp(t, codigoRe, b.Codigo)
		assert.Equal(t, repo.StatusAtiva, b.Status)
		assert.False(t, seen[b.Codigo])
		seen[b.Codigo] = true
	}

	assert.Equal(t, StateIdle, f.session.State())
	assert.Empty(t, f.session.Entries())
	assert.InDelta(t, 5, f.ledger.TodayTotal("vend-1"), 0.001)
}

func TestSubmitRevalidatesBlockedNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.session.SelectGame(f.milhar))
	_, err := f.session.Add(ctx, "5678", 2)
	require.NoError(t, err)

	// número passa a ser bloqueado depois de entrar na fila
	_, err = f.blocked.Add(ctx, f.milhar.ID, "5678")
	require.NoError(t, err)

	_, err = f.session.Submit(ctx, f.ledger)
	require.ErrorIs(t, err, ErrNumeroBloqueado)
	assert.Len(t, f.session.Entries(), 1, "fila preservada")
	assert.Empty(t, f.ledger.All(), "nenhuma gravação parcial no caminho abortado")
	assert.Equal(t, StateAccumulating, f.session.State())
}

func TestSubmitPartialFailureKeepsCreatedBets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.session.SelectGame(f.milhar))
	for _, n := range []string{"1111", "2222", "3333"} {
		_, err := f.session.Add(ctx, n, 1)
		require.NoError(t, err)
	}

	flaky := &flakyCreator{inner: f.ledger, failAt: 3}
	created, err := f.session.Submit(ctx, flaky)
	require.Error(t, err)
	assert.Len(t, created, 2, "apostas anteriores à falha permanecem")
	assert.Len(t, f.ledger.All(), 2)
	assert.Len(t, f.session.Entries(), 3, "fila preservada para reenvio")
	assert.Equal(t, StateAccumulating, f.session.State())
}

func TestSubmitEmptyQueue(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SelectGame(f.milhar))
	_, err := f.session.Submit(context.Background(), f.ledger)
	require.ErrorIs(t, err, ErrFilaVazia)
}

func TestAddRandom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.session.SelectGame(f.dezena))

	e, err := f.session.AddRandom(ctx, 5)
	require.NoError(t, err)
	assert.True(t, gametype.Dezena.ValidNumero(e.Numero))
	assert.InDelta(t, 5, e.Valor, 0.001)
}

func TestManagerReusesSession(t *testing.T) {
	f := newFixture(t)
	m := NewManager(f.blocked)
	s1 := m.Session("vend-1", "João")
	s2 := m.Session("vend-1", "João")
	assert.Same(t, s1, s2)
	assert.NotSame(t, s1, m.Session("vend-2", "Maria"))
}
