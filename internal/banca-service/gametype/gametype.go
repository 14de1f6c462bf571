package gametype

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// GameType identifica a modalidade do jogo; determina sozinho a quantidade
// de dígitos do número apostado.
type GameType string

const (
	Milhar  GameType = "milhar"  // 4 dígitos
	Centena GameType = "centena" // 3 dígitos
	Dezena  GameType = "dezena"  // 2 dígitos
)

var ErrTipoInvalido = errors.New("tipo de jogo inválido")

// Parse valida e converte a string em GameType.
func Parse(s string) (GameType, error) {
	switch GameType(strings.ToLower(s)) {
	case Milhar:
		return Milhar, nil
	case Centena:
		return Centena, nil
	case Dezena:
		return Dezena, nil
	}
	return "", fmt.Errorf("%w: %q", ErrTipoInvalido, s)
}

// Digits retorna a quantidade de dígitos exigida pela modalidade.
func (t GameType) Digits() int {
	switch t {
	case Milhar:
		return 4
	case Centena:
		return 3
	case Dezena:
		return 2
	}
	return 0
}

// FallbackMultiplier é a tabela de multiplicadores usada pelo comprovante
// quando o jogo não tem multiplicador próprio cadastrado.
func (t GameType) FallbackMultiplier() float64 {
	switch t {
	case Milhar:
		return 4000
	case Centena:
		return 600
	case Dezena:
		return 60
	}
	return 1000
}

// Label retorna o nome de exibição da modalidade.
func (t GameType) Label() string {
	switch t {
	case Milhar:
		return "Milhar"
	case Centena:
		return "Centena"
	case Dezena:
		return "Dezena"
	}
	return string(t)
}

// ValidNumero verifica se o número tem exatamente os dígitos da modalidade
// e é composto apenas por algarismos.
func (t GameType) ValidNumero(numero string) bool {
	if len(numero) != t.Digits() {
		return false
	}
	for _, r := range numero {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RandomNumero gera um número aleatório com os dígitos da modalidade.
func (t GameType) RandomNumero() string {
	var b strings.Builder
	for i := 0; i < t.Digits(); i++ {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}
