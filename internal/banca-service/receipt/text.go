package receipt

import (
	"fmt"
	"strings"
)

// RenderText produz o bilhete em texto plano, no estilo de impressora
// térmica. Mesmo bloco usado pela exportação em PDF.
func RenderText(r Receipt) string {
	var b strings.Builder

	fmt.Fprintf(&b, "COMPROVANTE DE APOSTA\n")
	fmt.Fprintf(&b, "Data: %s\n\n", r.DataHora.Format("02/01/2006 15:04"))

	fmt.Fprintf(&b, "RECIBO: %s\n", r.DisplayCodigo())
	fmt.Fprintf(&b, "JOGO: %s\n", strings.ToUpper(string(r.TipoJogo)))
	fmt.Fprintf(&b, "VENDEDOR: %s\n", strings.ToUpper(orDash(r.VendedorNome)))
	fmt.Fprintf(&b, "APOSTADOR: %s\n", strings.ToUpper(orDash(r.ApostadorNome)))
	fmt.Fprintf(&b, "TELEFONE: %s\n\n", orDash(r.ApostadorTelefone))

	fmt.Fprintf(&b, "- NÚMEROS APOSTADOS -\n")
	fmt.Fprintf(&b, "%s\n\n", strings.Join(r.Numeros, "    "))

	fmt.Fprintf(&b, "QTD NÚMEROS: %d\n", r.Quantidade)
	fmt.Fprintf(&b, "VALOR UNIT: R$ %.2f\n", r.ValorUnitario)
	fmt.Fprintf(&b, "TOTAL: R$ %.2f\n\n", r.Total)

	fmt.Fprintf(&b, "VALOR DO PRÊMIO: R$ %s\n\n", formatBR(r.PremioPotencial))

	fmt.Fprintf(&b, "ESSE BILHETE VALE ATÉ AS 16H DO PROXIMO DIA\n")
	fmt.Fprintf(&b, "BOA SORTE!\n")

	return b.String()
}
