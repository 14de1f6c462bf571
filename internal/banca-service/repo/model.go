package repo

import (
	"time"

	"github.com/sorteweb/banca-platform/internal/banca-service/gametype"
)

// BetStatus é o ciclo de vida de uma aposta. Transições válidas:
// ativa→cancelada e ativa→paga; ambas terminais.
type BetStatus string

const (
	StatusAtiva     BetStatus = "ativa"
	StatusCancelada BetStatus = "cancelada"
	StatusPaga      BetStatus = "paga"
)

// Game é um jogo cadastrado pela administração.
type Game struct {
	ID                string
	Nome              string
	Tipo              gametype.GameType
	ValorMinimo       float64
	ValorMaximo       float64
	Multiplicador     float64
	HorarioAbertura   string // "HH:MM"
	HorarioFechamento string
	Ativo             bool
	CreatedAt         time.Time
}

// BlockedNumber é um número retirado de venda para um jogo específico.
type BlockedNumber struct {
	ID        string
	GameID    string
	Numero    string
	CreatedAt time.Time
}

// Bet é o modelo persistido no Postgres.
type Bet struct {
	ID                 string
	VendedorID         string
	VendedorNome       string
	TipoJogo           gametype.GameType
	Numero             string
	Valor              float64
	DataHora           time.Time
	Status             BetStatus
	Codigo             string
	ApostadorNome      string
	ApostadorTelefone  string
}

// Profile é a identidade de um usuário (vendedor/gerente/admin).
// Role vem da tabela user_roles; o restante de profiles.
type Profile struct {
	ID        string
	Nome      string
	Usuario   string
	Email     string
	SenhaHash string
	Comissao  float64
	Status    string // "ativo" | "bloqueado"
	Role      string // "vendedor" | "gerente" | "admin"
	CreatedAt time.Time
}
