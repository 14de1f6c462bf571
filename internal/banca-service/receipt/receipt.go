package receipt

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sorteweb/banca-platform/internal/banca-service/gametype"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
)

var ErrSemApostas = errors.New("comprovante exige ao menos uma aposta")

// Receipt é o comprovante de um lote de apostas de um mesmo envio.
// O prêmio potencial é cálculo de exibição; não é persistido.
type Receipt struct {
	Codigo            string
	DataHora          time.Time
	TipoJogo          gametype.GameType
	VendedorNome      string
	ApostadorNome     string
	ApostadorTelefone string
	Numeros           []string
	ValorUnitario     float64
	Quantidade        int
	Total             float64
	Multiplicador     float64
	PremioPotencial   float64
}

const suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newCodigo(ts time.Time) string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return fmt.Sprintf("%d-%s", ts.UnixMilli(), b)
}

// Build monta o comprovante a partir das apostas de um envio.
// game é o jogo cadastrado, quando disponível; com game nil (ou
// multiplicador zerado) vale a tabela de fallback da modalidade.
func Build(bets []repo.Bet, game *repo.Game) (Receipt, error) {
	if len(bets) == 0 {
		return Receipt{}, ErrSemApostas
	}
	first := bets[0]

	var total float64
	numeros := make([]string, 0, len(bets))
	for _, b := range bets {
		total += b.Valor
		numeros = append(numeros, b.Numero)
	}

	mult := first.TipoJogo.FallbackMultiplier()
	if game != nil && game.Multiplicador > 0 {
		mult = game.Multiplicador
	}

	return Receipt{
		Codigo:            newCodigo(time.Now()),
		DataHora:          first.DataHora,
		TipoJogo:          first.TipoJogo,
		VendedorNome:      first.VendedorNome,
		ApostadorNome:     first.ApostadorNome,
		ApostadorTelefone: first.ApostadorTelefone,
		Numeros:           numeros,
		ValorUnitario:     first.Valor,
		Quantidade:        len(bets),
		Total:             total,
		Multiplicador:     mult,
		PremioPotencial:   total * mult,
	}, nil
}

// DisplayCodigo é o código truncado como aparece impresso no bilhete
func (r Receipt) DisplayCodigo() string {
	if len(r.Codigo) > 20 {
		return r.Codigo[:20]
	}
	return r.Codigo
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatBR formata moeda no padrão pt-BR: 20000 → "20.000,00"
func formatBR(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	parts := strings.SplitN(s, ".", 2)
	intPart, decPart := parts[0], parts[1]

	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	out := b.String() + "," + decPart
	if neg {
		out = "-" + out
	}
	return out
}
