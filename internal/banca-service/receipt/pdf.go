package receipt

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// RenderPDF produz o comprovante em A4, courier 11pt, com o mesmo
// bloco de texto do bilhete térmico.
func RenderPDF(r Receipt) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.AddPage()
	doc.SetFont("Courier", "", 11)

	tr := doc.UnicodeTranslatorFromDescriptor("") // acentos em cp1252

	doc.SetXY(40, 40)
	doc.MultiCell(515, 14, tr(RenderText(r)), "", "L", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
