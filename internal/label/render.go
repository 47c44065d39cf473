package label

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Layout constants for the label PDF: US-letter stock, half-inch margins,
// three stacked value blocks. Field captions are never rendered because the
// destination label stock has them pre-printed.
const (
	marginInch = 0.5

	titleFontSize  = 14
	normalFontSize = 10

	titleLineHeight  = 0.26 // inches, ~font size + leading
	normalLineHeight = 0.18
	blockSpacing     = 0.11 // reportlab's 8pt spaceAfter
)

// Render produces the label PDF: client name in bold, then the item
// description (with literal newlines preserved as line breaks), then the PO
// number. Values only, in that order.
func Render(data Data) ([]byte, error) {
	pdf := fpdf.New("P", "in", "Letter", "")
	pdf.SetMargins(marginInch, marginInch, marginInch)
	pdf.AddPage()

	// The core fonts read strings as CP1252, so UTF-8 input (client names
	// are free text) must be translated or accents come out as mojibake.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", titleFontSize)
	pdf.MultiCell(0, titleLineHeight, tr(data.ClientName), "", "L", false)
	pdf.Ln(blockSpacing)

	pdf.SetFont("Helvetica", "", normalFontSize)
	for _, line := range strings.Split(data.ItemDescription, "\n") {
		pdf.MultiCell(0, normalLineHeight, tr(line), "", "L", false)
	}
	pdf.Ln(blockSpacing)

	pdf.MultiCell(0, normalLineHeight, tr(PODisplay(data.PONumber)), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render label PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// PODisplay prefixes the PO number with "PO# " unless the value already
// starts with that marker, so source data like "PO#900" is not doubled up.
func PODisplay(poNumber string) string {
	if poNumber == "" || strings.HasPrefix(strings.ToUpper(poNumber), "PO#") {
		return poNumber
	}
	return "PO# " + poNumber
}
