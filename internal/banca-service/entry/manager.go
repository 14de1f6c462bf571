package entry

import "sync"

// Manager guarda a sessão de entrada de cada vendedor, criada sob demanda.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	blocked  BlockedChecker
}

func NewManager(blocked BlockedChecker) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		blocked:  blocked,
	}
}

// Session devolve a sessão do vendedor, criando uma nova se necessário.
func (m *Manager) Session(vendedorID, vendedorNome string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[vendedorID]; ok {
		return s
	}
	s := NewSession(vendedorID, vendedorNome, m.blocked)
	m.sessions[vendedorID] = s
	return s
}
