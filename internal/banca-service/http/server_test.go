package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/banca-service/blocked"
	"github.com/sorteweb/banca-platform/internal/banca-service/dto"
	"github.com/sorteweb/banca-platform/internal/banca-service/entry"
	"github.com/sorteweb/banca-platform/internal/banca-service/ledger"
	"github.com/sorteweb/banca-platform/internal/banca-service/registry"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
	"github.com/sorteweb/banca-platform/internal/shared/auth"
)

type fixture struct {
	t       *testing.T
	ts      *httptest.Server
	mem     *repo.Memory
	games   *registry.Games
	ledger  *ledger.Ledger
	auth    *auth.Manager
	admin   string // token
	gerente string
	vend    string
	vendID  string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	mem := repo.NewMemory()
	games := registry.NewGames(log, mem)
	bl := blocked.NewRegistry(log, mem, games, nil)
	led := ledger.New(log, mem, nil)
	entries := entry.NewManager(bl)
	am := auth.NewManager("segredo-de-teste", time.Hour)

	srv := NewServer(log, am, mem, games, bl, led, entries, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	f := &fixture{t: t, ts: ts, mem: mem, games: games, ledger: led, auth: am}

	adm := mem.SeedProfile(repo.Profile{Nome: "Admin", Usuario: "admin", Role: "admin", Status: "ativo"})
	ger := mem.SeedProfile(repo.Profile{Nome: "Gerente", Usuario: "gerente", Role: "gerente", Status: "ativo"})
	vnd := mem.SeedProfile(repo.Profile{Nome: "João", Usuario: "joao", Role: "vendedor", Comissao: 10, Status: "ativo"})

	var err error
	f.admin, err = am.Issue(adm.ID, adm.Nome, adm.Role, 0)
	require.NoError(t, err)
	f.gerente, err = am.Issue(ger.ID, ger.Nome, ger.Role, 0)
	require.NoError(t, err)
	f.vend, err = am.Issue(vnd.ID, vnd.Nome, vnd.Role, vnd.Comissao)
	require.NoError(t, err)
	f.vendID = vnd.ID
	return f
}

func (f *fixture) do(method, path, token string, body any) *http.Response {
	f.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(f.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.ts.URL+path, rd)
	require.NoError(f.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(f.t, err)
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func (f *fixture) createGame(tipo string, mult float64) dto.GameResponse {
	f.t.Helper()
	res := f.do(http.MethodPost, "/v1/games", f.admin, dto.GameRequest{
		Nome:          "Jogo " + tipo,
		Tipo:          tipo,
		ValorMinimo:   1,
		Multiplicador: mult,
	})
	require.Equal(f.t, http.StatusCreated, res.StatusCode)
	return decode[dto.GameResponse](f.t, res)
}

func TestLogin(t *testing.T) {
	f := setup(t)
	hash, err := auth.HashPassword("senha123")
	require.NoError(t, err)
	f.mem.SeedProfile(repo.Profile{Nome: "Maria", Usuario: "maria", SenhaHash: hash, Role: "vendedor", Status: "ativo"})

	res := f.do(http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{Usuario: "maria", Senha: "senha123"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	out := decode[dto.LoginResponse](t, res)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "maria", out.Profile.Usuario)
	assert.Equal(t, "vendedor", out.Profile.Role)

	claims, err := f.auth.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, "Maria", claims.Nome)
}

func TestLoginWrongPassword(t *testing.T) {
	f := setup(t)
	hash, _ := auth.HashPassword("senha123")
	f.mem.SeedProfile(repo.Profile{Usuario: "maria", SenhaHash: hash, Role: "vendedor", Status: "ativo"})

	res := f.do(http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{Usuario: "maria", Senha: "errada"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = f.do(http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{Usuario: "ninguem", Senha: "x"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestLoginBlockedUser(t *testing.T) {
	f := setup(t)
	hash, _ := auth.HashPassword("senha123")
	f.mem.SeedProfile(repo.Profile{Usuario: "bloq", SenhaHash: hash, Role: "vendedor", Status: "bloqueado"})

	res := f.do(http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{Usuario: "bloq", Senha: "senha123"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	f := setup(t)
	res := f.do(http.MethodGet, "/v1/games/active", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = f.do(http.MethodGet, "/v1/games/active", "token-qualquer", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestGameCRUDRequiresAdmin(t *testing.T) {
	f := setup(t)
	res := f.do(http.MethodPost, "/v1/games", f.vend, dto.GameRequest{Nome: "X", Tipo: "milhar"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = f.do(http.MethodGet, "/v1/games", f.gerente, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestGameLifecycle(t *testing.T) {
	f := setup(t)
	g := f.createGame("milhar", 4000)
	assert.Equal(t, "milhar", g.Tipo)
	assert.True(t, g.Ativo)

	// jogo ativo aparece para o vendedor
	res := f.do(http.MethodGet, "/v1/games/active", f.vend, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	active := decode[[]dto.GameResponse](t, res)
	require.Len(t, active, 1)

	// toggle esconde do seletor
	res = f.do(http.MethodPost, "/v1/games/"+g.ID+"/toggle", f.admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	toggled := decode[dto.GameResponse](t, res)
	assert.False(t, toggled.Ativo)

	res = f.do(http.MethodGet, "/v1/games/active", f.vend, nil)
	active = decode[[]dto.GameResponse](t, res)
	assert.Empty(t, active)

	// update
	res = f.do(http.MethodPut, "/v1/games/"+g.ID, f.admin, dto.GameRequest{
		Nome: "Milhar da Tarde", Tipo: "milhar", Multiplicador: 3500,
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	updated := decode[dto.GameResponse](t, res)
	assert.Equal(t, "Milhar da Tarde", updated.Nome)

	// delete
	res = f.do(http.MethodDelete, "/v1/games/"+g.ID, f.admin, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	res = f.do(http.MethodGet, "/v1/games", f.admin, nil)
	assert.Empty(t, decode[[]dto.GameResponse](t, res))
}

func TestCreateGameInvalidTipo(t *testing.T) {
	f := setup(t)
	res := f.do(http.MethodPost, "/v1/games", f.admin, dto.GameRequest{Nome: "X", Tipo: "quina"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestBlockedNumbers(t *testing.T) {
	f := setup(t)
	g := f.createGame("milhar", 4000)

	res := f.do(http.MethodPost, "/v1/games/"+g.ID+"/blocked-numbers", f.admin, dto.BlockNumberRequest{Numero: "1234"})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	b := decode[dto.BlockedNumberResponse](t, res)
	assert.Equal(t, "1234", b.Numero)
	assert.Equal(t, g.ID, b.GameID)

	// dígitos errados para a modalidade
	res = f.do(http.MethodPost, "/v1/games/"+g.ID+"/blocked-numbers", f.admin, dto.BlockNumberRequest{Numero: "123"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// bloqueio é rota de admin; gerente e vendedor não gerenciam
	res = f.do(http.MethodPost, "/v1/games/"+g.ID+"/blocked-numbers", f.gerente, dto.BlockNumberRequest{Numero: "9999"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	res = f.do(http.MethodPost, "/v1/games/"+g.ID+"/blocked-numbers", f.vend, dto.BlockNumberRequest{Numero: "9999"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = f.do(http.MethodGet, "/v1/games/"+g.ID+"/blocked-numbers", f.admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	list := decode[[]dto.BlockedNumberResponse](t, res)
	require.Len(t, list, 1)

	res = f.do(http.MethodDelete, "/v1/blocked-numbers/"+b.ID, f.admin, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}

func TestEntryFlow(t *testing.T) {
	f := setup(t)
	g := f.createGame("milhar", 4000)
	f.do(http.MethodPost, "/v1/games/"+g.ID+"/blocked-numbers", f.admin, dto.BlockNumberRequest{Numero: "1234"})

	// sem jogo selecionado
	res := f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "5678", Valor: 2})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = f.do(http.MethodPost, "/v1/entry/game", f.vend, dto.SelectGameRequest{GameID: g.ID})
	require.Equal(t, http.StatusOK, res.StatusCode)

	// número bloqueado é recusado na entrada
	res = f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "1234", Valor: 2})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	res = f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "5678", Valor: 2})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	res = f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "9012", Valor: 3})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = f.do(http.MethodGet, "/v1/entry", f.vend, nil)
	state := decode[dto.EntryStateResponse](t, res)
	assert.Equal(t, "accumulating", state.State)
	require.Len(t, state.Entries, 2)
	assert.InDelta(t, 5, state.Total, 0.001)

	res = f.do(http.MethodPost, "/v1/entry/submit", f.vend, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	out := decode[dto.SubmitResponse](t, res)
	require.Len(t, out.Bets, 2)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{8}$`), out.Bets[0].Codigo)
	assert.Equal(t, 2, out.Receipt.Quantidade)
	assert.InDelta(t, 5, out.Receipt.Total, 0.001)
	assert.InDelta(t, 20000, out.Receipt.PremioPotencial, 0.001)

	// sessão volta ao estado inicial
	res = f.do(http.MethodGet, "/v1/entry", f.vend, nil)
	state = decode[dto.EntryStateResponse](t, res)
	assert.Equal(t, "idle", state.State)
	assert.Empty(t, state.Entries)
}

func TestEntryDeferredStake(t *testing.T) {
	f := setup(t)
	g := f.createGame("dezena", 60)
	f.do(http.MethodPost, "/v1/entry/game", f.vend, dto.SelectGameRequest{GameID: g.ID})

	res := f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "42"})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	e := decode[entry.Entry](t, res)

	// valor pendente trava o envio
	res = f.do(http.MethodPost, "/v1/entry/submit", f.vend, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = f.do(http.MethodPut, "/v1/entry/numbers/"+e.ID, f.vend, dto.SetStakeRequest{Valor: 5})
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res = f.do(http.MethodPost, "/v1/entry/submit", f.vend, nil)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
}

func TestEntryEmptySubmit(t *testing.T) {
	f := setup(t)
	g := f.createGame("centena", 600)
	f.do(http.MethodPost, "/v1/entry/game", f.vend, dto.SelectGameRequest{GameID: g.ID})

	res := f.do(http.MethodPost, "/v1/entry/submit", f.vend, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestEntryApostadorOnReceipt(t *testing.T) {
	f := setup(t)
	g := f.createGame("milhar", 4000)
	f.do(http.MethodPost, "/v1/entry/game", f.vend, dto.SelectGameRequest{GameID: g.ID})
	f.do(http.MethodPost, "/v1/entry/apostador", f.vend, dto.ApostadorRequest{Nome: "Carlos", Telefone: "11 99999-0000"})
	f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "7777", Valor: 2})

	res := f.do(http.MethodPost, "/v1/entry/submit", f.vend, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	out := decode[dto.SubmitResponse](t, res)
	assert.Equal(t, "Carlos", out.Receipt.ApostadorNome)
	assert.Equal(t, "Carlos", out.Bets[0].ApostadorNome)
}

func TestBetsListingAndScoping(t *testing.T) {
	f := setup(t)
	g := f.createGame("milhar", 4000)

	// lote do vendedor
	f.do(http.MethodPost, "/v1/entry/game", f.vend, dto.SelectGameRequest{GameID: g.ID})
	f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "5678", Valor: 2})
	res := f.do(http.MethodPost, "/v1/entry/submit", f.vend, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	// gerente enxerga tudo
	res = f.do(http.MethodGet, "/v1/bets", f.gerente, nil)
	all := decode[[]dto.BetResponse](t, res)
	require.Len(t, all, 1)

	// vendedor enxerga as próprias
	res = f.do(http.MethodGet, "/v1/bets", f.vend, nil)
	own := decode[[]dto.BetResponse](t, res)
	require.Len(t, own, 1)
	assert.Equal(t, f.vendID, own[0].VendedorID)

	// busca parcial por número
	res = f.do(http.MethodGet, "/v1/bets?search=567", f.gerente, nil)
	assert.Len(t, decode[[]dto.BetResponse](t, res), 1)
	res = f.do(http.MethodGet, "/v1/bets?search=000", f.gerente, nil)
	assert.Empty(t, decode[[]dto.BetResponse](t, res))

	// filtro por status
	res = f.do(http.MethodGet, "/v1/bets?status=cancelada", f.gerente, nil)
	assert.Empty(t, decode[[]dto.BetResponse](t, res))
}

func TestCancelAndPay(t *testing.T) {
	f := setup(t)
	g := f.createGame("milhar", 4000)
	f.do(http.MethodPost, "/v1/entry/game", f.vend, dto.SelectGameRequest{GameID: g.ID})
	f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "5678", Valor: 2})
	f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "9012", Valor: 3})
	res := f.do(http.MethodPost, "/v1/entry/submit", f.vend, nil)
	out := decode[dto.SubmitResponse](t, res)
	require.Len(t, out.Bets, 2)

	// cancelamento é ação da administração; vendedor não cancela nem a própria
	res = f.do(http.MethodPost, "/v1/bets/"+out.Bets[0].ID+"/cancel", f.vend, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = f.do(http.MethodPost, "/v1/bets/"+out.Bets[0].ID+"/cancel", f.gerente, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	cancelled := decode[dto.BetResponse](t, res)
	assert.Equal(t, "cancelada", cancelled.Status)

	// cancelar de novo é conflito de transição
	res = f.do(http.MethodPost, "/v1/bets/"+out.Bets[0].ID+"/cancel", f.gerente, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// gerente marca como paga
	res = f.do(http.MethodPost, "/v1/bets/"+out.Bets[1].ID+"/pay", f.gerente, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	paid := decode[dto.BetResponse](t, res)
	assert.Equal(t, "paga", paid.Status)

	// vendedor não marca pagamento
	res = f.do(http.MethodPost, "/v1/bets/"+out.Bets[1].ID+"/pay", f.vend, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = f.do(http.MethodPost, "/v1/bets/inexistente/cancel", f.gerente, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestSummary(t *testing.T) {
	f := setup(t)
	g := f.createGame("milhar", 4000)
	f.do(http.MethodPost, "/v1/entry/game", f.vend, dto.SelectGameRequest{GameID: g.ID})
	f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "5678", Valor: 10})
	f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "9012", Valor: 10})
	res := f.do(http.MethodPost, "/v1/entry/submit", f.vend, nil)
	out := decode[dto.SubmitResponse](t, res)

	// cancelada sai do total mas permanece na contagem
	f.do(http.MethodPost, "/v1/bets/"+out.Bets[0].ID+"/cancel", f.gerente, nil)

	res = f.do(http.MethodGet, "/v1/bets/summary", f.vend, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	sum := decode[dto.SummaryResponse](t, res)
	assert.InDelta(t, 10, sum.Total, 0.001)
	assert.Equal(t, 2, sum.Count)
	assert.InDelta(t, 1, sum.Comissao, 0.001) // 10% de R$10
}

func TestReceiptFormats(t *testing.T) {
	f := setup(t)
	g := f.createGame("milhar", 4000)
	f.do(http.MethodPost, "/v1/entry/game", f.vend, dto.SelectGameRequest{GameID: g.ID})
	f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "5678", Valor: 2})
	res := f.do(http.MethodPost, "/v1/entry/submit", f.vend, nil)
	out := decode[dto.SubmitResponse](t, res)
	codigo := out.Bets[0].Codigo

	res = f.do(http.MethodGet, "/v1/receipts/"+codigo, f.vend, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	rec := decode[dto.ReceiptResponse](t, res)
	assert.Equal(t, []string{"5678"}, rec.Numeros)

	res = f.do(http.MethodGet, "/v1/receipts/"+codigo+"?format=text", f.vend, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Contains(t, string(body), "COMPROVANTE DE APOSTA")
	assert.Contains(t, string(body), "5678")

	res = f.do(http.MethodGet, "/v1/receipts/"+codigo+"?format=pdf", f.vend, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/pdf", res.Header.Get("Content-Type"))
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	res = f.do(http.MethodGet, "/v1/receipts/NAOEXISTE", f.vend, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestSellersUnavailableWithoutService(t *testing.T) {
	f := setup(t)
	res := f.do(http.MethodGet, "/v1/sellers", f.admin, nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	res = f.do(http.MethodGet, "/v1/sellers", f.vend, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestGameSwitchClearsQueue(t *testing.T) {
	f := setup(t)
	g1 := f.createGame("milhar", 4000)
	g2 := f.createGame("dezena", 60)

	f.do(http.MethodPost, "/v1/entry/game", f.vend, dto.SelectGameRequest{GameID: g1.ID})
	f.do(http.MethodPost, "/v1/entry/numbers", f.vend, dto.AddNumberRequest{Numero: "5678", Valor: 2})

	res := f.do(http.MethodPost, "/v1/entry/game", f.vend, dto.SelectGameRequest{GameID: g2.ID})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = f.do(http.MethodGet, "/v1/entry", f.vend, nil)
	state := decode[dto.EntryStateResponse](t, res)
	assert.Equal(t, "game_selected", state.State)
	assert.Empty(t, state.Entries)
}
