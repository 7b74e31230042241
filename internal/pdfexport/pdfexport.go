// Package pdfexport renders a snapshot document as a syntax-highlighted PDF.
package pdfexport

import (
	"fmt"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jung-kurt/gofpdf"

	"github.com/imagenespdf/projkit/internal/snapshot"
)

const (
	pageWidth  = 210 // A4, mm
	margin     = 10
	lineHeight = 5.0
	fontSize   = 9
	tabWidth   = 4
	styleName  = "github"
)

const textWidth = pageWidth - 2*margin

// Write renders doc to filename: a title page, one page per section and the
// statistics.
func Write(doc *snapshot.Document, filename string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	// Core fonts are cp1252; translate so accented text survives.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	pdf.AddPage()
	writeHeader(pdf, tr, doc)

	for _, sec := range doc.Sections {
		pdf.AddPage()
		writeSectionHeader(pdf, tr, sec)
		if sec.Err != nil || sec.Content == snapshot.EmptySentinel {
			writePlain(pdf, tr, sec.Content, sec.Err != nil)
			continue
		}
		if err := writeHighlighted(pdf, tr, style, sec.RelPath, sec.Content); err != nil {
			writePlain(pdf, tr, sec.Content, false)
		}
	}

	pdf.AddPage()
	writeStats(pdf, tr, doc.Stats)

	if err := pdf.OutputFileAndClose(filename); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", filename, err)
	}
	return nil
}

func writeHeader(pdf *gofpdf.Fpdf, tr func(string) string, doc *snapshot.Document) {
	pdf.SetFont("Helvetica", "B", fontSize+5)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(textWidth, lineHeight+3, tr("MEMORIA DEL PROYECTO"), "", "L", false)
	pdf.Ln(lineHeight)

	lines := []string{
		"Generado: " + doc.GeneratedAt.Format("2006-01-02 15:04:05"),
		"Raíz: " + doc.Root,
	}
	if doc.RunID != "" {
		lines = append(lines, "Ejecución: "+doc.RunID)
	}
	if doc.Git != "" {
		lines = append(lines, "Git: "+doc.Git)
	}
	lines = append(lines, fmt.Sprintf("Archivos: %d", len(doc.Sections)))

	pdf.SetFont("Helvetica", "", fontSize+1)
	pdf.MultiCell(textWidth, lineHeight, tr(strings.Join(lines, "\n")), "", "L", false)
}

func writeSectionHeader(pdf *gofpdf.Fpdf, tr func(string) string, sec snapshot.Section) {
	pdf.SetFont("Helvetica", "B", fontSize+1)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(textWidth, lineHeight, tr("ARCHIVO: "+sec.RelPath), "", "L", false)

	pdf.SetFont("Helvetica", "", fontSize-1)
	if sec.HasDescription() {
		pdf.MultiCell(textWidth, lineHeight, tr("PROPOSITO: "+sec.Description), "", "L", false)
	}
	pdf.MultiCell(textWidth, lineHeight, tr(fmt.Sprintf("TAMAÑO: %d bytes", sec.Size)), "", "L", false)
	pdf.Ln(lineHeight / 2)

	pdf.Line(margin, pdf.GetY(), pageWidth-margin, pdf.GetY())
	pdf.Ln(lineHeight / 2)
}

func writePlain(pdf *gofpdf.Fpdf, tr func(string) string, text string, isError bool) {
	pdf.SetFont("Courier", "", fontSize)
	if isError {
		pdf.SetTextColor(200, 0, 0)
	} else {
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.MultiCell(textWidth, lineHeight, tr(expandTabs(text)), "", "L", false)
}

// lexerFor picks a lexer by file name, then by content analysis.
func lexerFor(name, content string) chroma.Lexer {
	lexer := lexers.Match(path.Base(name))
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

func writeHighlighted(pdf *gofpdf.Fpdf, tr func(string) string, style *chroma.Style, name, content string) error {
	iterator, err := lexerFor(name, content).Tokenise(nil, content)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	pdf.SetFont("Courier", "", fontSize)
	base := style.Get(chroma.Text).Colour
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)
		fontStyle := ""
		if entry.Bold == chroma.Yes {
			fontStyle += "B"
		}
		if entry.Italic == chroma.Yes {
			fontStyle += "I"
		}
		pdf.SetFontStyle(fontStyle)

		colour := entry.Colour
		if !colour.IsSet() {
			colour = base
		}
		if colour.IsSet() {
			pdf.SetTextColor(int(colour.Red()), int(colour.Green()), int(colour.Blue()))
		} else {
			pdf.SetTextColor(0, 0, 0)
		}

		pdf.Write(lineHeight, tr(expandTabs(token.Value)))
	}
	pdf.Ln(-1)
	return nil
}

func writeStats(pdf *gofpdf.Fpdf, tr func(string) string, st snapshot.Stats) {
	pdf.SetFont("Helvetica", "B", fontSize+1)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(textWidth, lineHeight, tr("ESTADÍSTICAS"), "", "L", false)
	pdf.Ln(lineHeight / 2)

	lines := []string{
		fmt.Sprintf("Archivos procesados: %d", st.Processed),
		fmt.Sprintf("Errores de lectura: %d", st.Errors),
		fmt.Sprintf("Total de caracteres: %d", st.Characters),
		fmt.Sprintf("Total de bytes: %d", st.TotalBytes),
		"Extensiones incluidas: " + strings.Join(st.Filter.Extensions, ", "),
		"Archivos excluidos: " + strings.Join(st.Filter.ExcludedNames, ", "),
		"Directorios excluidos: " + strings.Join(st.Filter.ExcludedDirs, ", "),
	}
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.MultiCell(textWidth, lineHeight, tr(strings.Join(lines, "\n")), "", "L", false)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
