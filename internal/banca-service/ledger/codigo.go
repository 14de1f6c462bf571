package ledger

import "math/rand"

const codigoAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codigoLen = 8

// GenerateCodigo gera o código do bilhete: 8 caracteres [A-Z0-9].
// ~41 bits de entropia; unicidade é probabilística, não verificada
// contra o banco antes do insert.
func GenerateCodigo() string {
	b := make([]byte, codigoLen)
	for i := range b {
		b[i] = codigoAlphabet[rand.Intn(len(codigoAlphabet))]
	}
	return string(b)
}
