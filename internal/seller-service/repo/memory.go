package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory é o contrato do Postgres em memória, para testes e modo offline.
type Memory struct {
	mu      sync.Mutex
	sellers []Seller
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) List(ctx context.Context) ([]Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Seller, 0, len(m.sellers))
	for i := len(m.sellers) - 1; i >= 0; i-- {
		out = append(out, m.sellers[i])
	}
	return out, nil
}

func (m *Memory) GetByID(ctx context.Context, id string) (*Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sellers {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) Create(ctx context.Context, s *Seller) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.sellers {
		if cur.Usuario == s.Usuario || (s.Email != "" && cur.Email == s.Email) {
			return ErrDuplicado
		}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = time.Now()
	m.sellers = append(m.sellers, *s)
	return nil
}

func (m *Memory) Update(ctx context.Context, s *Seller) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.sellers {
		if cur.ID != s.ID && (cur.Usuario == s.Usuario || (s.Email != "" && cur.Email == s.Email)) {
			return ErrDuplicado
		}
	}
	for i, cur := range m.sellers {
		if cur.ID == s.ID {
			if s.SenhaHash == "" {
				s.SenhaHash = cur.SenhaHash
			}
			s.CreatedAt = cur.CreatedAt
			m.sellers[i] = *s
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sellers {
		if m.sellers[i].ID == id {
			m.sellers = append(m.sellers[:i], m.sellers[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
