package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory guarda tudo em memória, atrás do mesmo contrato do Postgres.
// É o modo offline da banca e a fixture padrão dos testes.
type Memory struct {
	mu       sync.Mutex
	games    []Game
	blocked  []BlockedNumber
	bets     []Bet
	profiles []Profile

	forced error // quando setado, toda operação falha com esse erro
}

func NewMemory() *Memory { return &Memory{} }

// Fail força as próximas operações a falharem; Fail(nil) restaura.
func (m *Memory) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forced = err
}

func (m *Memory) failNow() error { return m.forced }

// ---- games ----

func (m *Memory) ListGames(ctx context.Context) ([]Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNow(); err != nil {
		return nil, err
	}
	out := make([]Game, len(m.games))
	copy(out, m.games)
	return out, nil
}

func (m *Memory) CreateGame(ctx context.Context, g *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNow(); err != nil {
		return err
	}
	g.ID = uuid.NewString()
	g.CreatedAt = time.Now()
	m.games = append(m.games, *g)
	return nil
}

func (m *Memory) UpdateGame(ctx context.Context, g *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNow(); err != nil {
		return err
	}
	for i := range m.games {
		if m.games[i].ID == g.ID {
			g.CreatedAt = m.games[i].CreatedAt
			m.games[i] = *g
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) DeleteGame(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNow(); err != nil {
		return err
	}
	for i := range m.games {
		if m.games[i].ID == id {
			m.games = append(m.games[:i], m.games[i+1:]...)
			break
		}
	}
	// bloqueios do jogo cascateiam, como no banco
	kept := m.blocked[:0]
	for _, b := range m.blocked {
		if b.GameID != id {
			kept = append(kept, b)
		}
	}
	m.blocked = kept
	return nil
}

// ---- blocked_numbers ----

func (m *Memory) ListBlockedNumbers(ctx context.Context) ([]BlockedNumber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNow(); err != nil {
		return nil, err
	}
	out := make([]BlockedNumber, len(m.blocked))
	copy(out, m.blocked)
	return out, nil
}

func (m *Memory) CreateBlockedNumber(ctx context.Context, b *BlockedNumber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNow(); err != nil {
		return err
	}
	for _, cur := range m.blocked {
		if cur.GameID == b.GameID && cur.Numero == b.Numero {
			*b = cur // duplicado: no-op, devolve o existente
			return nil
		}
	}
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now()
	m.blocked = append(m.blocked, *b)
	return nil
}

func (m *Memory) DeleteBlockedNumber(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNow(); err != nil {
		return err
	}
	for i := range m.blocked {
		if m.blocked[i].ID == id {
			m.blocked = append(m.blocked[:i], m.blocked[i+1:]...)
			return nil
		}
	}
	return nil
}

// ---- bets ----

func (m *Memory) ListBets(ctx context.Context) ([]Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNow(); err != nil {
		return nil, err
	}
	// mais recente primeiro
	out := make([]Bet, 0, len(m.bets))
	for i := len(m.bets) - 1; i >= 0; i-- {
		out = append(out, m.bets[i])
	}
	return out, nil
}

func (m *Memory) CreateBet(ctx context.Context, b *Bet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNow(); err != nil {
		return err
	}
	b.ID = uuid.NewString()
	m.bets = append(m.bets, *b)
	return nil
}

func (m *Memory) UpdateBetStatus(ctx context.Context, id string, from, to BetStatus) (*Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNow(); err != nil {
		return nil, err
	}
	for i := range m.bets {
		if m.bets[i].ID == id {
			if m.bets[i].Status != from {
				return nil, ErrInvalidTransition
			}
			m.bets[i].Status = to
			out := m.bets[i]
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// ---- profiles ----

// SeedProfile insere um perfil direto no store (fixture de teste / offline).
func (m *Memory) SeedProfile(p Profile) Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Role == "" {
		p.Role = "vendedor"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	m.profiles = append(m.profiles, p)
	return p
}

func (m *Memory) GetProfileByUsuario(ctx context.Context, usuario string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNow(); err != nil {
		return nil, err
	}
	for _, p := range m.profiles {
		if p.Usuario == usuario {
			out := p
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetProfileByID(ctx context.Context, id string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNow(); err != nil {
		return nil, err
	}
	for _, p := range m.profiles {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, ErrNotFound
}
