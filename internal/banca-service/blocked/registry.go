package blocked

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
)

var (
	ErrGameNotFound   = errors.New("jogo não encontrado")
	ErrNumeroInvalido = errors.New("número não corresponde aos dígitos do jogo")
)

// Store é o subconjunto de persistência usado pelo registro de bloqueios
type Store interface {
	ListBlockedNumbers(ctx context.Context) ([]repo.BlockedNumber, error)
	CreateBlockedNumber(ctx context.Context, b *repo.BlockedNumber) error
	DeleteBlockedNumber(ctx context.Context, id string) error
}

// GameLookup resolve jogos cadastrados (para validar dígitos do bloqueio)
type GameLookup interface {
	Get(id string) (repo.Game, bool)
}

// Registry é o ponto de aplicação dos números bloqueados: um conjunto
// por (jogo, número), sem expiração nem peso. A consulta de entrada de
// aposta lê do Redis; indisponibilidade do Redis cai para o conjunto em
// memória (guarda best-effort do lado do cliente).
type Registry struct {
	log   *zap.Logger
	store Store
	games GameLookup
	rdb   *redis.Client // opcional; nil em modo offline

	mu    sync.RWMutex
	items []repo.BlockedNumber
}

func NewRegistry(log *zap.Logger, store Store, games GameLookup, rdb *redis.Client) *Registry {
	return &Registry{log: log, store: store, games: games, rdb: rdb}
}

func key(gameID, numero string) string {
	return fmt.Sprintf("blocked:%s:%s", gameID, numero)
}

// Load recarrega o conjunto do store e reaquece o Redis
func (r *Registry) Load(ctx context.Context) error {
	items, err := r.store.ListBlockedNumbers(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.items = items
	r.mu.Unlock()

	if r.rdb != nil {
		pipe := r.rdb.Pipeline()
		for _, b := range items {
			pipe.Set(ctx, key(b.GameID, b.Numero), "1", 0)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			r.log.Warn("falha ao aquecer cache de bloqueios", zap.Error(err))
		}
	}
	return nil
}

// ByGame retorna os bloqueios de um jogo
func (r *Registry) ByGame(gameID string) []repo.BlockedNumber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []repo.BlockedNumber
	for _, b := range r.items {
		if b.GameID == gameID {
			out = append(out, b)
		}
	}
	return out
}

// IsBlocked verifica se o par (jogo, número) está retirado de venda.
// Prefere o Redis; qualquer erro cai para o conjunto em memória.
func (r *Registry) IsBlocked(ctx context.Context, gameID, numero string) bool {
	if r.rdb != nil {
		n, err := r.rdb.Exists(ctx, key(gameID, numero)).Result()
		if err == nil {
			return n > 0
		}
		r.log.Warn("cache de bloqueios indisponível, usando memória", zap.Error(err))
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.items {
		if b.GameID == gameID && b.Numero == numero {
			return true
		}
	}
	return false
}

// Add bloqueia um número para o jogo. Par já existente é no-op, não erro.
func (r *Registry) Add(ctx context.Context, gameID, numero string) (repo.BlockedNumber, error) {
	g, ok := r.games.Get(gameID)
	if !ok {
		return repo.BlockedNumber{}, ErrGameNotFound
	}
	if !g.Tipo.ValidNumero(numero) {
		return repo.BlockedNumber{}, fmt.Errorf("%w: %q para %s", ErrNumeroInvalido, numero, g.Tipo)
	}

	r.mu.RLock()
	for _, b := range r.items {
		if b.GameID == gameID && b.Numero == numero {
			r.mu.RUnlock()
			return b, nil
		}
	}
	r.mu.RUnlock()

	b := repo.BlockedNumber{GameID: gameID, Numero: numero}
	if err := r.store.CreateBlockedNumber(ctx, &b); err != nil {
		return repo.BlockedNumber{}, err
	}

	r.mu.Lock()
	r.items = append(r.items, b)
	r.mu.Unlock()

	if r.rdb != nil {
		if err := r.rdb.Set(ctx, key(gameID, numero), "1", 0).Err(); err != nil {
			r.log.Warn("falha ao gravar bloqueio no cache", zap.Error(err))
		}
	}
	return b, nil
}

// Remove desbloqueia pelo id do registro
func (r *Registry) Remove(ctx context.Context, id string) error {
	if err := r.store.DeleteBlockedNumber(ctx, id); err != nil {
		return err
	}

	var removed *repo.BlockedNumber
	r.mu.Lock()
	for i := range r.items {
		if r.items[i].ID == id {
			b := r.items[i]
			removed = &b
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	if removed != nil && r.rdb != nil {
		if err := r.rdb.Del(ctx, key(removed.GameID, removed.Numero)).Err(); err != nil {
			r.log.Warn("falha ao remover bloqueio do cache", zap.Error(err))
		}
	}
	return nil
}
