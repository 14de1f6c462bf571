package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var htmlTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"upper": strings.ToUpper,
	"brl":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"brlFmt": formatBR,
	"orDash": orDash,
}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8" />
  <title>Comprovante de Aposta</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; padding: 16px; background: #f5f5f5; }
    .receipt { max-width: 360px; margin: 0 auto; background: #fff; color: #111827; border-radius: 8px; padding: 16px 16px 20px; font-size: 13px; }
    .title { text-align: center; font-weight: 700; letter-spacing: 0.08em; margin-bottom: 4px; }
    .muted { color: #6b7280; }
    .section { border-top: 1px dashed #d1d5db; padding-top: 8px; margin-top: 8px; }
    .row { display: flex; justify-content: space-between; margin-top: 4px; }
    .numero { text-align: center; font-weight: 700; font-size: 18px; padding: 6px 0; margin-bottom: 4px; border-radius: 6px; background: #f3f4f6; }
    .total-box { margin-top: 12px; padding: 10px 12px; border-radius: 8px; border: 1px dashed #111827; text-align: center; }
    .prize-box { margin-top: 12px; padding: 10px 12px; border-radius: 8px; border: 2px solid #111827; text-align: center; background: #f9fafb; }
    .footer { margin-top: 10px; text-align: center; font-size: 11px; color: #9ca3af; }
    @media print { body { background: #fff; padding: 0; } }
  </style>
</head>
<body>
  <div class="receipt">
    <div class="title">COMPROVANTE DE APOSTA</div>
    <div class="muted" style="text-align:center; margin-bottom:8px;">{{ .DataHora.Format "02/01/2006 15:04" }}</div>

    <div class="section">
      <div class="row"><span class="muted">RECIBO:</span><span>{{ .DisplayCodigo }}</span></div>
      <div class="row"><span class="muted">JOGO:</span><span>{{ upper (printf "%s" .TipoJogo) }}</span></div>
      <div class="row"><span class="muted">VENDEDOR:</span><span>{{ upper (orDash .VendedorNome) }}</span></div>
      <div class="row"><span class="muted">APOSTADOR:</span><span>{{ upper (orDash .ApostadorNome) }}</span></div>
      <div class="row"><span class="muted">TELEFONE:</span><span>{{ orDash .ApostadorTelefone }}</span></div>
    </div>

    <div class="section">
      <div class="muted" style="text-align:center; margin-bottom:6px;">- NÚMEROS APOSTADOS -</div>
      {{ range .Numeros }}<div class="numero">{{ . }}</div>
      {{ end }}
      <div class="row" style="margin-top:10px;"><span class="muted">QTD NÚMEROS:</span><span>{{ .Quantidade }}</span></div>
      <div class="row"><span class="muted">VALOR UNIT:</span><span>R$ {{ brl .ValorUnitario }}</span></div>
    </div>

    <div class="total-box">
      <div style="font-size:12px; font-weight:600;">TOTAL</div>
      <div style="font-size:18px; font-weight:700; margin-top:2px;">R$ {{ brl .Total }}</div>
    </div>

    <div class="prize-box">
      <div class="muted" style="font-size:12px;">VALOR DO PRÊMIO</div>
      <div style="font-size:18px; font-weight:700;">R$ {{ brlFmt .PremioPotencial }}</div>
    </div>

    <div class="footer">ESSE BILHETE VALE ATÉ AS 16H DO PROXIMO DIA • BOA SORTE!</div>
  </div>
</body>
</html>
`))

// RenderHTML produz a versão imprimível do comprovante
func RenderHTML(r Receipt) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("render receipt html: %w", err)
	}
	return buf.Bytes(), nil
}
