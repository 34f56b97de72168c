package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pdfPageCount(data []byte) int {
	// Each page object carries "/Type /Page"; the page tree root adds one
	// "/Type /Pages" which the substring also matches.
	return bytes.Count(data, []byte("/Type /Page")) - 1
}

func TestBuildLabelDocument(t *testing.T) {
	InitBarcodeRenderer()

	tender := singleVariantTender("T-Shirt", "White", "M", 2, []string{"Cutting", "Stitching"})
	exp := ExpandLabels(tender)

	data, filename, err := BuildLabelDocument(tender, exp)
	assert.NoError(t, err)
	assert.Equal(t, "barcodes-Acme-Textiles.pdf", filename)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output should be a PDF document")
	assert.Equal(t, 1, pdfPageCount(data), "4 labels fit on a single page")
}

func TestBuildLabelDocumentFilenameFallback(t *testing.T) {
	InitBarcodeRenderer()

	tender := singleVariantTender("T-Shirt", "White", "M", 1, []string{"Cutting"})
	tender.CustomerName = ""
	exp := ExpandLabels(tender)

	_, filename, err := BuildLabelDocument(tender, exp)
	assert.NoError(t, err)
	assert.Equal(t, "barcodes-tender.pdf", filename)
}

func TestBuildLabelDocumentPaginates(t *testing.T) {
	InitBarcodeRenderer()

	// 20 pieces x 2 operations = 40 labels; at 3 columns per row this
	// overflows the first page.
	tender := singleVariantTender("T-Shirt", "White", "M", 20, []string{"Cutting", "Stitching"})
	exp := ExpandLabels(tender)
	assert.Len(t, exp.Labels, 40)

	data, _, err := BuildLabelDocument(tender, exp)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, pdfPageCount(data), 2, "40 labels should span multiple pages")
}

func TestBuildLabelDocumentEmptyExpansion(t *testing.T) {
	InitBarcodeRenderer()

	// All variants skipped: the document still composes with just a header.
	tender := singleVariantTender("T-Shirt", "", "M", 2, []string{"Cutting"})
	exp := ExpandLabels(tender)
	assert.Empty(t, exp.Labels)

	data, _, err := BuildLabelDocument(tender, exp)
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, 1, pdfPageCount(data))
}

func TestBuildLabelDocumentRequiresRenderer(t *testing.T) {
	original := GetBarcodeRenderer()
	defer SetBarcodeRenderer(original)
	SetBarcodeRenderer(nil)

	tender := singleVariantTender("T-Shirt", "White", "M", 1, []string{"Cutting"})
	_, _, err := BuildLabelDocument(tender, ExpandLabels(tender))
	assert.Error(t, err)
}
