package receipt

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorteweb/banca-platform/internal/banca-service/gametype"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
)

func sampleBets() []repo.Bet {
	dh := time.Date(2026, 3, 14, 10, 30, 0, 0, time.Local)
	return []repo.Bet{
		{ID: "b1", VendedorNome: "João", TipoJogo: gametype.Milhar, Numero: "5678", Valor: 2, DataHora: dh, Codigo: "AAAA1111"},
		{ID: "b2", VendedorNome: "João", TipoJogo: gametype.Milhar, Numero: "9012", Valor: 3, DataHora: dh, Codigo: "BBBB2222"},
	}
}

func TestBuildUsesGameMultiplier(t *testing.T) {
	game := &repo.Game{Nome: "Milhar Principal", Tipo: gametype.Milhar, Multiplicador: 4000}

	r, err := Build(sampleBets(), game)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Quantidade)
	assert.InDelta(t, 5, r.Total, 0.001)
	assert.InDelta(t, 2, r.ValorUnitario, 0.001)
	// total R$5 × 4000 = R$20000, cálculo de exibição
	assert.InDelta(t, 20000, r.PremioPotencial, 0.001)
	assert.Equal(t, []string{"5678", "9012"}, r.Numeros)
}

func TestBuildFallbackMultiplier(t *testing.T) {
	tests := []struct {
		tipo gametype.GameType
		want float64
	}{
		{gametype.Milhar, 4000},
		{gametype.Centena, 600},
		{gametype.Dezena, 60},
	}
	for _, tt := range tests {
		t.Run(string(tt.tipo), func(t *testing.T) {
			bets := sampleBets()
			for i := range bets {
				bets[i].TipoJogo = tt.tipo
			}
			r, err := Build(bets, nil)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, r.Multiplicador, 0.001)
			assert.InDelta(t, 5*tt.want, r.PremioPotencial, 0.001)
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil, nil)
	require.ErrorIs(t, err, ErrSemApostas)
}

func TestCodigoFormat(t *testing.T) {
	r, err := Build(sampleBets(), nil)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d+-[A-Z0-9]{8}$`), r.Codigo)
	assert.LessOrEqual(t, len(r.DisplayCodigo()), 20)
}

func TestRenderText(t *testing.T) {
	game := &repo.Game{Tipo: gametype.Milhar, Multiplicador: 4000}
	r, err := Build(sampleBets(), game)
	require.NoError(t, err)

	out := RenderText(r)
	assert.Contains(t, out, "COMPROVANTE DE APOSTA")
	assert.Contains(t, out, "JOGO: MILHAR")
	assert.Contains(t, out, "VENDEDOR: JOÃO")
	assert.Contains(t, out, "APOSTADOR: -")
	assert.Contains(t, out, "5678    9012")
	assert.Contains(t, out, "QTD NÚMEROS: 2")
	assert.Contains(t, out, "VALOR UNIT: R$ 2.00")
	assert.Contains(t, out, "TOTAL: R$ 5.00")
	assert.Contains(t, out, "VALOR DO PRÊMIO: R$ 20.000,00")
	assert.Contains(t, out, "14/03/2026 10:30")
}

func TestRenderHTML(t *testing.T) {
	r, err := Build(sampleBets(), nil)
	require.NoError(t, err)

	out, err := RenderHTML(r)
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "COMPROVANTE DE APOSTA")
	assert.Contains(t, html, "MILHAR")
	assert.Contains(t, html, "5678")
	assert.Contains(t, html, "9012")
	assert.Contains(t, html, "20.000,00")
}

func TestRenderPDF(t *testing.T) {
	r, err := Build(sampleBets(), nil)
	require.NoError(t, err)

	out, err := RenderPDF(r)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"), "saída deve ser um PDF")
}

func TestFormatBR(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0,00"},
		{5, "5,00"},
		{20000, "20.000,00"},
		{1234567.5, "1.234.567,50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBR(tt.in))
	}
}
