// Package invoice renders payment-stage invoices as PDF documents.
//
// Both variants (standard invoice and the simplified RESIMPLE receipt)
// are expressed as a flat list of layout blocks consumed by a single
// engine, instead of each variant carrying its own coordinate math.
package invoice

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/go-pdf/fpdf"
)

type RGB struct{ R, G, B int }

// Palette used by both variants.
var (
	colorBrand     = RGB{37, 99, 235}   // #2563eb
	colorInk       = RGB{0, 0, 0}
	colorSlate     = RGB{30, 41, 59}    // #1e293b
	colorGray      = RGB{107, 114, 128} // #6b7280
	colorMuted     = RGB{100, 116, 139} // #64748b
	colorBody      = RGB{55, 65, 81}    // #374151
	colorDim       = RGB{71, 85, 105}   // #475569
	colorLine      = RGB{229, 231, 235} // #e5e7eb
	colorLineSoft  = RGB{226, 232, 240} // #e2e8f0
	colorLineHard  = RGB{203, 213, 225} // #cbd5e1
	colorRowAlt    = RGB{248, 249, 250} // #f8f9fa
	colorPanel     = RGB{248, 250, 252} // #f8fafc
	colorHeadFill  = RGB{241, 245, 249} // #f1f5f9
	colorSignature = RGB{156, 163, 175} // #9ca3af
	colorWhite     = RGB{255, 255, 255}
)

// Page geometry: A4 in points, matching the coordinate system the
// layouts were designed in.
const pageWidth = 595.0

type Block interface{ isBlock() }

// Band is a filled rectangle (header bands, section banners).
type Band struct {
	X, Y, W, H float64
	Fill       RGB
}

// Box is an outlined, optionally filled rectangle.
type Box struct {
	X, Y, W, H float64
	Fill       *RGB
	Stroke     *RGB
}

// Label is absolutely positioned text. Width > 0 constrains the text
// box and enables Align ("L", "C", "R").
type Label struct {
	X, Y  float64
	Size  float64
	Color RGB
	Bold  bool
	Text  string
	Width float64
	Align string
}

// Rule is a horizontal or arbitrary line.
type Rule struct {
	X1, Y1, X2, Y2 float64
	Color          RGB
}

// Image embeds a picture; when the asset cannot be loaded the Fallback
// label is drawn instead. A missing logo must never fail the render.
type Image struct {
	Path     string
	X, Y, W  float64
	Fallback Label
}

// Table draws a column-aligned table with a filled header row, bordered
// body rows with optional alternating fill, and padding rows appended
// until the body holds PadTo rows (visual consistency of the layout).
type Table struct {
	X, Y, W    float64
	RowH       float64
	HeaderH    float64
	HeaderFill RGB
	HeaderText RGB
	AltFill    *RGB
	Border     RGB
	ColOffsets []float64
	HeaderSize float64
	RowSize    float64
	Header     []string
	Rows       [][]string
	PadTo      int
}

func (Band) isBlock()  {}
func (Box) isBlock()   {}
func (Label) isBlock() {}
func (Rule) isBlock()  {}
func (Image) isBlock() {}
func (Table) isBlock() {}

// Render lays out the blocks on a single A4 page and returns the PDF
// bytes.
func Render(blocks []Block) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, b := range blocks {
		switch blk := b.(type) {
		case Band:
			pdf.SetFillColor(blk.Fill.R, blk.Fill.G, blk.Fill.B)
			pdf.Rect(blk.X, blk.Y, blk.W, blk.H, "F")
		case Box:
			style := ""
			if blk.Fill != nil {
				pdf.SetFillColor(blk.Fill.R, blk.Fill.G, blk.Fill.B)
				style += "F"
			}
			if blk.Stroke != nil {
				pdf.SetDrawColor(blk.Stroke.R, blk.Stroke.G, blk.Stroke.B)
				style += "D"
			}
			pdf.Rect(blk.X, blk.Y, blk.W, blk.H, style)
		case Label:
			drawLabel(pdf, tr, blk)
		case Rule:
			pdf.SetDrawColor(blk.Color.R, blk.Color.G, blk.Color.B)
			pdf.Line(blk.X1, blk.Y1, blk.X2, blk.Y2)
		case Image:
			drawImage(pdf, tr, blk)
		case Table:
			drawTable(pdf, tr, blk)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawLabel(pdf *fpdf.Fpdf, tr func(string) string, l Label) {
	style := ""
	if l.Bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, l.Size)
	pdf.SetTextColor(l.Color.R, l.Color.G, l.Color.B)
	align := l.Align
	if align == "" {
		align = "L"
	}
	w := l.Width
	if w == 0 {
		w = pageWidth - l.X
	}
	pdf.SetXY(l.X, l.Y)
	pdf.CellFormat(w, l.Size*1.25, tr(l.Text), "", 0, align, false, 0, "")
}

func drawImage(pdf *fpdf.Fpdf, tr func(string) string, img Image) {
	// Validate the asset before handing it to fpdf: a bad image would
	// poison the document error state, and a missing logo must degrade
	// to the text fallback, never fail the render.
	if img.Path != "" && decodableImage(img.Path) {
		opts := fpdf.ImageOptions{ReadDpi: true}
		pdf.ImageOptions(img.Path, img.X, img.Y, img.W, 0, false, opts, 0, "")
		return
	}
	drawLabel(pdf, tr, img.Fallback)
}

func decodableImage(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	_, _, err = image.DecodeConfig(f)
	return err == nil
}

func drawTable(pdf *fpdf.Fpdf, tr func(string) string, t Table) {
	headerH := t.HeaderH
	if headerH == 0 {
		headerH = t.RowH
	}
	y := t.Y

	pdf.SetFillColor(t.HeaderFill.R, t.HeaderFill.G, t.HeaderFill.B)
	pdf.Rect(t.X, y, t.W, headerH, "F")
	pdf.SetDrawColor(t.Border.R, t.Border.G, t.Border.B)
	pdf.Rect(t.X, y, t.W, headerH, "D")
	pdf.SetFont("Helvetica", "", t.HeaderSize)
	pdf.SetTextColor(t.HeaderText.R, t.HeaderText.G, t.HeaderText.B)
	for i, h := range t.Header {
		pdf.SetXY(t.X+t.ColOffsets[i], y+(headerH-t.HeaderSize)/2)
		pdf.CellFormat(0, t.HeaderSize*1.2, tr(h), "", 0, "L", false, 0, "")
	}
	y += headerH

	rows := t.Rows
	for len(rows) < t.PadTo {
		rows = append(rows, make([]string, len(t.Header)))
	}

	pdf.SetFont("Helvetica", "", t.RowSize)
	for i, row := range rows {
		if t.AltFill != nil && i%2 == 1 {
			pdf.SetFillColor(t.AltFill.R, t.AltFill.G, t.AltFill.B)
			pdf.Rect(t.X, y, t.W, t.RowH, "F")
		}
		pdf.SetDrawColor(t.Border.R, t.Border.G, t.Border.B)
		pdf.Rect(t.X, y, t.W, t.RowH, "D")
		pdf.SetTextColor(colorInk.R, colorInk.G, colorInk.B)
		for c, cell := range row {
			if cell == "" {
				continue
			}
			pdf.SetXY(t.X+t.ColOffsets[c], y+(t.RowH-t.RowSize)/2)
			pdf.CellFormat(0, t.RowSize*1.2, tr(cell), "", 0, "L", false, 0, "")
		}
		y += t.RowH
	}
}
