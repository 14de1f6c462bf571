package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/banca-service/gametype"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
	"github.com/sorteweb/banca-platform/internal/shared/metrics"
	"github.com/sorteweb/banca-platform/pkg/contracts/events"
)

var (
	ErrValorInvalido  = errors.New("valor da aposta deve ser positivo")
	ErrNumeroInvalido = errors.New("número não corresponde aos dígitos do jogo")
)

// Store é o subconjunto de persistência usado pelo ledger
type Store interface {
	ListBets(ctx context.Context) ([]repo.Bet, error)
	CreateBet(ctx context.Context, b *repo.Bet) error
	UpdateBetStatus(ctx context.Context, id string, from, to repo.BetStatus) (*repo.Bet, error)
}

// Publisher emite eventos de ciclo de vida de aposta
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishBetCancelled(ctx context.Context, e events.BetCancelled) error
}

// Input são os campos fornecidos pelo fluxo de entrada ao criar uma aposta
type Input struct {
	VendedorID        string
	VendedorNome      string
	Tipo              gametype.GameType
	Numero            string
	Valor             float64
	ApostadorNome     string
	ApostadorTelefone string
}

// Ledger é a coleção ordenada de apostas (mais recente primeiro),
// espelhada do store. Em falha de persistência a lista não avança.
type Ledger struct {
	log   *zap.Logger
	store Store
	publ  Publisher // opcional; nil em modo offline

	mu   sync.RWMutex
	bets []repo.Bet
}

func New(log *zap.Logger, store Store, publ Publisher) *Ledger {
	return &Ledger{log: log, store: store, publ: publ}
}

// Load recarrega a lista em memória a partir do store
func (l *Ledger) Load(ctx context.Context) error {
	bets, err := l.store.ListBets(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.bets = bets
	l.mu.Unlock()
	return nil
}

// Create gera o código, carimba data/hora, persiste e insere a aposta
// no topo da lista. O erro de persistência é propagado e a lista fica
// intocada.
func (l *Ledger) Create(ctx context.Context, in Input) (repo.Bet, error) {
	if in.Valor <= 0 {
		return repo.Bet{}, ErrValorInvalido
	}
	if !in.Tipo.ValidNumero(in.Numero) {
		return repo.Bet{}, fmt.Errorf("%w: %q para %s", ErrNumeroInvalido, in.Numero, in.Tipo)
	}

	b := repo.Bet{
		VendedorID:        in.VendedorID,
		VendedorNome:      in.VendedorNome,
		TipoJogo:          in.Tipo,
		Numero:            in.Numero,
		Valor:             in.Valor,
		DataHora:          time.Now(),
		Status:            repo.StatusAtiva,
		Codigo:            GenerateCodigo(),
		ApostadorNome:     in.ApostadorNome,
		ApostadorTelefone: in.ApostadorTelefone,
	}
	if err := l.store.CreateBet(ctx, &b); err != nil {
		return repo.Bet{}, err
	}

	l.mu.Lock()
	l.bets = append([]repo.Bet{b}, l.bets...)
	l.mu.Unlock()

	metrics.BetsCreated.Inc()

	if l.publ != nil {
		err := l.publ.PublishBetPlaced(ctx, events.BetPlaced{
			BetID:        b.ID,
			Codigo:       b.Codigo,
			VendedorID:   b.VendedorID,
			VendedorNome: b.VendedorNome,
			TipoJogo:     string(b.TipoJogo),
			Numero:       b.Numero,
			Valor:        b.Valor,
		})
		if err != nil {
			l.log.Warn("falha ao publicar bet_placed", zap.String("bet_id", b.ID), zap.Error(err))
		}
	}
	return b, nil
}

// Cancel transiciona ativa→cancelada e substitui o registro na lista
func (l *Ledger) Cancel(ctx context.Context, id string) (repo.Bet, error) {
	updated, err := l.store.UpdateBetStatus(ctx, id, repo.StatusAtiva, repo.StatusCancelada)
	if err != nil {
		return repo.Bet{}, err
	}
	l.replace(*updated)

	metrics.BetsCancelled.Inc()

	if l.publ != nil {
		err := l.publ.PublishBetCancelled(ctx, events.BetCancelled{
			BetID:      updated.ID,
			Codigo:     updated.Codigo,
			VendedorID: updated.VendedorID,
			Ts:         time.Now(),
		})
		if err != nil {
			l.log.Warn("falha ao publicar bet_cancelled", zap.String("bet_id", updated.ID), zap.Error(err))
		}
	}
	return *updated, nil
}

// MarkPaid transiciona ativa→paga
func (l *Ledger) MarkPaid(ctx context.Context, id string) (repo.Bet, error) {
	updated, err := l.store.UpdateBetStatus(ctx, id, repo.StatusAtiva, repo.StatusPaga)
	if err != nil {
		return repo.Bet{}, err
	}
	l.replace(*updated)
	return *updated, nil
}

func (l *Ledger) replace(b repo.Bet) {
	l.mu.Lock()
	for i := range l.bets {
		if l.bets[i].ID == b.ID {
			l.bets[i] = b
			break
		}
	}
	l.mu.Unlock()
}

// All retorna todas as apostas, mais recente primeiro
func (l *Ledger) All() []repo.Bet {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]repo.Bet, len(l.bets))
	copy(out, l.bets)
	return out
}

// ByVendedor filtra pelas apostas de um vendedor
func (l *Ledger) ByVendedor(vendedorID string) []repo.Bet {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []repo.Bet
	for _, b := range l.bets {
		if b.VendedorID == vendedorID {
			out = append(out, b)
		}
	}
	return out
}

// ByCodigo busca uma aposta pelo código do bilhete
func (l *Ledger) ByCodigo(codigo string) (repo.Bet, bool) {
	codigo = strings.ToUpper(codigo)
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, b := range l.bets {
		if b.Codigo == codigo {
			return b, true
		}
	}
	return repo.Bet{}, false
}

func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// TodayTotal soma o valor das apostas ativas de hoje (dia calendário,
// fuso local), opcionalmente restrito a um vendedor. Canceladas e pagas
// ficam de fora.
func (l *Ledger) TodayTotal(vendedorID string) float64 {
	now := time.Now()
	l.mu.RLock()
	defer l.mu.RUnlock()
	var total float64
	for _, b := range l.bets {
		if b.Status != repo.StatusAtiva || !sameLocalDay(b.DataHora, now) {
			continue
		}
		if vendedorID != "" && b.VendedorID != vendedorID {
			continue
		}
		total += b.Valor
	}
	return total
}

// TodayCount conta as apostas de hoje independente de status,
// opcionalmente restrito a um vendedor.
func (l *Ledger) TodayCount(vendedorID string) int {
	now := time.Now()
	l.mu.RLock()
	defer l.mu.RUnlock()
	var count int
	for _, b := range l.bets {
		if !sameLocalDay(b.DataHora, now) {
			continue
		}
		if vendedorID != "" && b.VendedorID != vendedorID {
			continue
		}
		count++
	}
	return count
}

// CommissionToday é a comissão estimada do vendedor sobre o total de hoje
func (l *Ledger) CommissionToday(vendedorID string, comissao float64) float64 {
	return l.TodayTotal(vendedorID) * comissao / 100
}

// Search filtra por número, nome do vendedor ou código (busca parcial,
// sem distinção de maiúsculas), com filtros opcionais de tipo e status.
func (l *Ledger) Search(term string, tipo gametype.GameType, status repo.BetStatus) []repo.Bet {
	lower := strings.ToLower(term)
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []repo.Bet
	for _, b := range l.bets {
		if term != "" &&
			!strings.Contains(b.Numero, term) &&
			!strings.Contains(strings.ToLower(b.VendedorNome), lower) &&
			!strings.Contains(strings.ToLower(b.Codigo), lower) {
			continue
		}
		if tipo != "" && b.TipoJogo != tipo {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, b)
	}
	return out
}
