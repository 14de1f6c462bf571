package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrTokenInvalid = errors.New("token inválido ou expirado")
)

// Claims carrega a identidade do usuário autenticado nos tokens de sessão.
type Claims struct {
	Nome     string  `json:"nome"`
	Role     string  `json:"role"` // "vendedor" | "gerente" | "admin"
	Comissao float64 `json:"comissao"`
	jwt.RegisteredClaims
}

// Manager emite e valida tokens de sessão assinados com HMAC.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue gera um token para o perfil informado.
func (m *Manager) Issue(profileID, nome, role string, comissao float64) (string, error) {
	now := time.Now()
	claims := Claims{
		Nome:     nome,
		Role:     role,
		Comissao: comissao,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify valida assinatura e expiração e retorna as claims do token.
func (m *Manager) Verify(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}

// HashPassword gera o hash bcrypt da senha.
func HashPassword(senha string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compara senha em claro com o hash armazenado.
func CheckPassword(hash, senha string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha)) == nil
}
