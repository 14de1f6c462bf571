package entry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sorteweb/banca-platform/internal/banca-service/ledger"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
	"github.com/sorteweb/banca-platform/internal/shared/metrics"
)

// State é o estado do fluxo de entrada de apostas de um vendedor
type State string

const (
	StateIdle         State = "idle"          // nenhum jogo selecionado
	StateGameSelected State = "game_selected" // jogo escolhido, entrada habilitada
	StateAccumulating State = "accumulating"  // um ou mais números na fila
	StateSubmitting   State = "submitting"    // gravação do lote em andamento
)

var (
	ErrNoGameSelected  = errors.New("nenhum jogo selecionado")
	ErrGameInactive    = errors.New("jogo indisponível para apostas")
	ErrNumeroInvalido  = errors.New("número inválido para o jogo selecionado")
	ErrNumeroBloqueado = errors.New("número bloqueado para este jogo")
	ErrValorInvalido   = errors.New("valor deve ser positivo")
	ErrValorPendente   = errors.New("há números na fila sem valor definido")
	ErrFilaVazia       = errors.New("nenhum número na fila")
	ErrEntradaNaoAchada = errors.New("entrada não encontrada na fila")
	ErrEnvioEmAndamento = errors.New("envio já em andamento")
	ErrRandomEsgotado   = errors.New("não foi possível gerar número livre de bloqueio")
)

// BlockedChecker é a consulta de bloqueio usada na entrada e no envio
type BlockedChecker interface {
	IsBlocked(ctx context.Context, gameID, numero string) bool
}

// BetCreator grava uma aposta no ledger
type BetCreator interface {
	Create(ctx context.Context, in ledger.Input) (repo.Bet, error)
}

// Entry é um número validado aguardando envio, com valor próprio.
// Valor zero significa valor adiado: precisa ser corrigido antes do envio.
type Entry struct {
	ID     string  `json:"id"`
	Numero string  `json:"numero"`
	Valor  float64 `json:"valor"`
}

// Session é a máquina de estados de entrada de apostas de um vendedor:
// Idle → GameSelected → Accumulating → Submitting → Idle (sucesso)
// ou de volta a Accumulating (falha).
type Session struct {
	mu sync.Mutex

	vendedorID   string
	vendedorNome string

	state   State
	game    repo.Game
	hasGame bool
	queue   []Entry

	apostadorNome     string
	apostadorTelefone string

	blocked BlockedChecker
}

func NewSession(vendedorID, vendedorNome string, blocked BlockedChecker) *Session {
	return &Session{
		vendedorID:   vendedorID,
		vendedorNome: vendedorNome,
		state:        StateIdle,
		blocked:      blocked,
	}
}

// State retorna o estado atual da máquina
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Game retorna o jogo selecionado, se houver
func (s *Session) Game() (repo.Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game, s.hasGame
}

// Entries retorna a fila atual
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.queue))
	copy(out, s.queue)
	return out
}

// Total soma os valores da fila
func (s *Session) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, e := range s.queue {
		total += e.Valor
	}
	return total
}

// SetApostador registra nome/telefone do apostador para o lote atual
func (s *Session) SetApostador(nome, telefone string) {
	s.mu.Lock()
	s.apostadorNome = nome
	s.apostadorTelefone = telefone
	s.mu.Unlock()
}

// SelectGame escolhe o jogo do lote. Trocar de jogo com números na fila
// limpa a fila: a troca invalida o contexto de dígitos e bloqueios das
// entradas anteriores.
func (s *Session) SelectGame(g repo.Game) error {
	if !g.Ativo {
		return ErrGameInactive
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return ErrEnvioEmAndamento
	}
	s.game = g
	s.hasGame = true
	s.queue = nil
	s.state = StateGameSelected
	return nil
}

// Add valida e enfileira um número. Valor zero é aceito (variante de
// valor adiado); valor negativo não. Qualquer violação deixa a fila
// intocada.
func (s *Session) Add(ctx context.Context, numero string, valor float64) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return Entry{}, ErrEnvioEmAndamento
	}
	if !s.hasGame {
		metrics.EntriesRejected.WithLabelValues("sem_jogo").Inc()
		return Entry{}, ErrNoGameSelected
	}
	if !s.game.Tipo.ValidNumero(numero) {
		metrics.EntriesRejected.WithLabelValues("numero_invalido").Inc()
		return Entry{}, fmt.Errorf("%w: %q exige %d dígitos", ErrNumeroInvalido, numero, s.game.Tipo.Digits())
	}
	if s.blocked.IsBlocked(ctx, s.game.ID, numero) {
		metrics.EntriesRejected.WithLabelValues("bloqueado").Inc()
		return Entry{}, fmt.Errorf("%w: %s", ErrNumeroBloqueado, numero)
	}
	if valor < 0 {
		metrics.EntriesRejected.WithLabelValues("valor_invalido").Inc()
		return Entry{}, ErrValorInvalido
	}

	e := Entry{ID: uuid.NewString(), Numero: numero, Valor: valor}
	s.queue = append(s.queue, e)
	s.state = StateAccumulating
	return e, nil
}

// AddRandom gera um número aleatório da modalidade, pulando bloqueados,
// e o enfileira com o valor informado.
func (s *Session) AddRandom(ctx context.Context, valor float64) (Entry, error) {
	s.mu.Lock()
	if !s.hasGame {
		s.mu.Unlock()
		return Entry{}, ErrNoGameSelected
	}
	game := s.game
	s.mu.Unlock()

	for i := 0; i < 20; i++ {
		numero := game.Tipo.RandomNumero()
		e, err := s.Add(ctx, numero, valor)
		if errors.Is(err, ErrNumeroBloqueado) {
			continue
		}
		return e, err
	}
	return Entry{}, ErrRandomEsgotado
}

// SetStake corrige o valor de uma entrada já enfileirada
func (s *Session) SetStake(entryID string, valor float64) error {
	if valor <= 0 {
		return ErrValorInvalido
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return ErrEnvioEmAndamento
	}
	for i := range s.queue {
		if s.queue[i].ID == entryID {
			s.queue[i].Valor = valor
			return nil
		}
	}
	return ErrEntradaNaoAchada
}

// Remove tira uma entrada da fila
func (s *Session) Remove(entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return ErrEnvioEmAndamento
	}
	for i := range s.queue {
		if s.queue[i].ID == entryID {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			if len(s.queue) == 0 && s.state == StateAccumulating {
				s.state = StateGameSelected
			}
			return nil
		}
	}
	return ErrEntradaNaoAchada
}

// Clear esvazia a fila mantendo o jogo selecionado
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return
	}
	s.queue = nil
	if s.hasGame {
		s.state = StateGameSelected
	} else {
		s.state = StateIdle
	}
}

// Submit revalida a fila inteira (bloqueios e valores positivos) e grava
// uma aposta por entrada, em sequência. Falha de validação aborta sem
// gravar nada; falha de persistência no meio do laço interrompe o
// restante, preserva a fila e mantém as apostas já gravadas (risco
// assumido de escrita parcial, sem rollback compensatório).
func (s *Session) Submit(ctx context.Context, creator BetCreator) ([]repo.Bet, error) {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, ErrEnvioEmAndamento
	}
	if !s.hasGame {
		s.mu.Unlock()
		return nil, ErrNoGameSelected
	}
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return nil, ErrFilaVazia
	}
	game := s.game
	queue := make([]Entry, len(s.queue))
	copy(queue, s.queue)
	s.state = StateSubmitting
	apostadorNome, apostadorTelefone := s.apostadorNome, s.apostadorTelefone
	s.mu.Unlock()

	fail := func(err error) ([]repo.Bet, error) {
		s.mu.Lock()
		s.state = StateAccumulating
		s.mu.Unlock()
		return nil, err
	}

	// revalidação no momento do envio: nenhum número pode ter sido
	// bloqueado desde a entrada e todo valor precisa ser positivo
	for _, e := range queue {
		if e.Valor <= 0 {
			return fail(fmt.Errorf("%w: %s", ErrValorPendente, e.Numero))
		}
		if s.blocked.IsBlocked(ctx, game.ID, e.Numero) {
			return fail(fmt.Errorf("%w: %s", ErrNumeroBloqueado, e.Numero))
		}
	}

	var created []repo.Bet
	for _, e := range queue {
		b, err := creator.Create(ctx, ledger.Input{
			VendedorID:        s.vendedorID,
			VendedorNome:      s.vendedorNome,
			Tipo:              game.Tipo,
			Numero:            e.Numero,
			Valor:             e.Valor,
			ApostadorNome:     apostadorNome,
			ApostadorTelefone: apostadorTelefone,
		})
		if err != nil {
			s.mu.Lock()
			s.state = StateAccumulating
			s.mu.Unlock()
			return created, fmt.Errorf("gravação interrompida após %d de %d apostas: %w",
				len(created), len(queue), err)
		}
		created = append(created, b)
	}

	s.mu.Lock()
	s.queue = nil
	s.game = repo.Game{}
	s.hasGame = false
	s.apostadorNome = ""
	s.apostadorTelefone = ""
	s.state = StateIdle
	s.mu.Unlock()
	return created, nil
}
