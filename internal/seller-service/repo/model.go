package repo

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("vendedor não encontrado")
	ErrDuplicado = errors.New("usuário ou e-mail já cadastrado")
)

// Seller é um perfil operacional da banca (vendedor ou gerente) com o
// papel resolvido de user_roles.
type Seller struct {
	ID        string
	Nome      string
	Usuario   string
	Email     string
	SenhaHash string
	Comissao  float64
	Status    string // "ativo" | "bloqueado"
	Perfil    string // "vendedor" | "gerente"
	CreatedAt time.Time
}
