package services

import (
	"bytes"
	"fmt"

	"github.com/grav-clothing/grav-cms-api/models"
	"github.com/grav-clothing/grav-cms-api/utils"
	"github.com/jung-kurt/gofpdf"
)

// Label grid geometry, A4 portrait, millimeters. A new page starts whenever
// the next row would cross pageHeightMax; the column wraps by modulo.
const (
	labelColumns   = 3
	labelCellW     = 63.0
	labelCellH     = 42.0
	pageHeightMax  = 270.0
	pageLeftMargin = 10.0
	pageTopMargin  = 14.0

	documentTitle = "Grav Clothing - Production Barcodes"
)

// BuildLabelDocument composes the downloadable label document for one
// expansion run: a document header (title, customer, generation date) then
// a fixed-column grid of barcode cells. Returns the PDF bytes and the
// download filename ("barcodes-<customer>.pdf", falling back to a literal
// when the customer name is blank).
func BuildLabelDocument(t *models.Tender, exp models.Expansion) ([]byte, string, error) {
	renderer := GetBarcodeRenderer()
	if renderer == nil {
		return nil, "", fmt.Errorf("barcode renderer is not initialized")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Header is emitted once per document.
	pdf.SetXY(pageLeftMargin, pageTopMargin)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 7, documentTitle, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(pageLeftMargin)
	pdf.CellFormat(0, 5, "Customer: "+customerDisplayName(t), "", 1, "L", false, 0, "")
	pdf.SetX(pageLeftMargin)
	pdf.CellFormat(0, 5, "Generated: "+exp.GeneratedAt.Format("Jan 2, 2006 15:04"), "", 1, "L", false, 0, "")

	y := pdf.GetY() + 4
	for i, label := range exp.Labels {
		col := i % labelColumns
		if col == 0 && i > 0 {
			y += labelCellH
		}
		if col == 0 && y+labelCellH > pageHeightMax {
			pdf.AddPage()
			y = pageTopMargin
		}
		x := pageLeftMargin + float64(col)*labelCellW
		if err := drawLabelCell(pdf, renderer, label, x, y); err != nil {
			return nil, "", err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to compose label document: %w", err)
	}

	filename := fmt.Sprintf("barcodes-%s.pdf", utils.SanitizeName(t.CustomerName))
	return buf.Bytes(), filename, nil
}

// drawLabelCell places one rendered barcode with its human-readable payload
// and the four caption lines inside a fixed bounding box at (x, y).
func drawLabelCell(pdf *gofpdf.Fpdf, renderer BarcodeRenderer, label models.LabelRecord, x, y float64) error {
	png, err := renderer.RenderCode128(label.ID)
	if err != nil {
		return fmt.Errorf("failed to render label %s: %w", label.ID, err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	imageName := "label-" + label.ID
	pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(png))
	pdf.ImageOptions(imageName, x+3, y, labelCellW-6, 13, false, opts, 0, "")

	// Display value beneath the bars.
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(x, y+13.5)
	pdf.CellFormat(labelCellW, 3, label.ID, "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(x, y+17.5)
	pdf.CellFormat(labelCellW, 4, label.Category, "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(x, y+21.5)
	pdf.CellFormat(labelCellW, 4, label.Color+" | "+label.Size, "", 0, "C", false, 0, "")
	pdf.SetXY(x, y+25.5)
	pdf.CellFormat(labelCellW, 4, fmt.Sprintf("piece %d/%d", label.PieceNumber, label.TotalPieces), "", 0, "C", false, 0, "")
	pdf.SetXY(x, y+29.5)
	pdf.CellFormat(labelCellW, 4, label.Operation, "", 0, "C", false, 0, "")

	return nil
}

// customerDisplayName returns the customer name for document headers.
func customerDisplayName(t *models.Tender) string {
	if t.CustomerName == "" {
		return "Unknown customer"
	}
	return t.CustomerName
}
