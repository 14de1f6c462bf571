package registry

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
)

// Store é o subconjunto de persistência que o registro de jogos usa
type Store interface {
	ListGames(ctx context.Context) ([]repo.Game, error)
	CreateGame(ctx context.Context, g *repo.Game) error
	UpdateGame(ctx context.Context, g *repo.Game) error
	DeleteGame(ctx context.Context, id string) error
}

// Games mantém a visão em memória dos jogos cadastrados, espelhada do store.
// Toda mutação vai primeiro ao store; em falha de persistência a visão
// em memória não muda (consistência read-after-write para a interface).
type Games struct {
	log   *zap.Logger
	store Store

	mu    sync.RWMutex
	games []repo.Game
}

func NewGames(log *zap.Logger, store Store) *Games {
	return &Games{log: log, store: store}
}

// Load recarrega a visão em memória a partir do store
func (r *Games) Load(ctx context.Context) error {
	games, err := r.store.ListGames(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.games = games
	r.mu.Unlock()
	return nil
}

// List retorna todos os jogos em ordem de cadastro
func (r *Games) List() []repo.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]repo.Game, len(r.games))
	copy(out, r.games)
	return out
}

// ListActive retorna somente os jogos visíveis no seletor do vendedor
func (r *Games) ListActive() []repo.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []repo.Game
	for _, g := range r.games {
		if g.Ativo {
			out = append(out, g)
		}
	}
	return out
}

// Get busca um jogo pelo id
func (r *Games) Get(id string) (repo.Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.games {
		if g.ID == id {
			return g, true
		}
	}
	return repo.Game{}, false
}

// Create persiste o jogo e o acrescenta à visão em memória
func (r *Games) Create(ctx context.Context, g repo.Game) (repo.Game, error) {
	if err := r.store.CreateGame(ctx, &g); err != nil {
		return repo.Game{}, err
	}
	r.mu.Lock()
	r.games = append(r.games, g)
	r.mu.Unlock()
	return g, nil
}

// Update substitui os campos do jogo pelo id. Jogo inexistente é logado
// e ignorado, sem propagar erro.
func (r *Games) Update(ctx context.Context, g repo.Game) error {
	err := r.store.UpdateGame(ctx, &g)
	if errors.Is(err, repo.ErrNotFound) {
		r.log.Warn("update de jogo inexistente ignorado", zap.String("game_id", g.ID))
		return nil
	}
	if err != nil {
		return err
	}
	r.mu.Lock()
	for i := range r.games {
		if r.games[i].ID == g.ID {
			r.games[i] = g
			break
		}
	}
	r.mu.Unlock()
	return nil
}

// Delete remove o jogo do store e da visão em memória
func (r *Games) Delete(ctx context.Context, id string) error {
	if err := r.store.DeleteGame(ctx, id); err != nil {
		return err
	}
	r.mu.Lock()
	for i := range r.games {
		if r.games[i].ID == id {
			r.games = append(r.games[:i], r.games[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	return nil
}

// ToggleActive inverte o flag ativo e retorna o jogo atualizado.
// Desativar esconde o jogo do seletor do vendedor; apostas históricas
// não são afetadas.
func (r *Games) ToggleActive(ctx context.Context, id string) (repo.Game, error) {
	g, ok := r.Get(id)
	if !ok {
		return repo.Game{}, repo.ErrNotFound
	}
	g.Ativo = !g.Ativo
	if err := r.store.UpdateGame(ctx, &g); err != nil {
		return repo.Game{}, err
	}
	r.mu.Lock()
	for i := range r.games {
		if r.games[i].ID == id {
			r.games[i] = g
			break
		}
	}
	r.mu.Unlock()
	return g, nil
}
