package dto

import (
	"encoding/json"
	"time"

	"github.com/sorteweb/banca-platform/internal/seller-service/repo"
)

// ManageRequest é o envelope de gestão: uma ação sobre um vendedor
type ManageRequest struct {
	Action string          `json:"action"` // "create" | "update" | "delete"
	Data   json.RawMessage `json:"data"`
}

// SellerData são os campos aceitos em create e update. Em update a
// senha é opcional; vazia mantém a atual.
type SellerData struct {
	ID       string  `json:"id,omitempty"`
	Nome     string  `json:"nome"`
	Usuario  string  `json:"usuario"`
	Email    string  `json:"email,omitempty"`
	Senha    string  `json:"senha,omitempty"`
	Comissao float64 `json:"comissao"`
	Perfil   string  `json:"perfil"` // "vendedor" | "gerente"
	Status   string  `json:"status,omitempty"`
}

// UpdateSellerData traz só os campos a alterar. Campo ausente mantém o
// valor atual; em particular, não reenviar status não desbloqueia ninguém.
type UpdateSellerData struct {
	ID       string   `json:"id"`
	Nome     *string  `json:"nome,omitempty"`
	Usuario  *string  `json:"usuario,omitempty"`
	Email    *string  `json:"email,omitempty"`
	Senha    *string  `json:"senha,omitempty"`
	Comissao *float64 `json:"comissao,omitempty"`
	Perfil   *string  `json:"perfil,omitempty"`
	Status   *string  `json:"status,omitempty"`
}

// SellerResponse é a visão pública de um vendedor (sem hash de senha)
type SellerResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Usuario   string    `json:"usuario"`
	Email     string    `json:"email,omitempty"`
	Comissao  float64   `json:"comissao"`
	Perfil    string    `json:"perfil"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func FromSeller(s repo.Seller) SellerResponse {
	return SellerResponse{
		ID:        s.ID,
		Nome:      s.Nome,
		Usuario:   s.Usuario,
		Email:     s.Email,
		Comissao:  s.Comissao,
		Perfil:    s.Perfil,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}

func FromSellers(sellers []repo.Seller) []SellerResponse {
	out := make([]SellerResponse, 0, len(sellers))
	for _, s := range sellers {
		out = append(out, FromSeller(s))
	}
	return out
}

// ErrorResponse é o envelope de erro padrão
type ErrorResponse struct {
	Error string `json:"error"`
}
