package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrintView(t *testing.T) {
	InitBarcodeRenderer()

	tender := singleVariantTender("T-Shirt", "White", "M", 2, []string{"Cutting", "Stitching"})
	exp := ExpandLabels(tender)

	html, err := BuildPrintView(tender, exp)
	assert.NoError(t, err)

	// Header block.
	assert.Contains(t, html, "Customer: Acme Textiles")
	assert.Contains(t, html, "Generated:")

	// One embedded image per label; no client-side rendering script.
	assert.Equal(t, len(exp.Labels), strings.Count(html, "data:image/png;base64,"))
	assert.NotContains(t, html, "<script")

	// The four caption lines.
	assert.Contains(t, html, "T-Shirt")
	assert.Contains(t, html, "White | M")
	assert.Contains(t, html, "piece 1/2")
	assert.Contains(t, html, "piece 2/2")
	assert.Contains(t, html, "Cutting")
	assert.Contains(t, html, "Stitching")

	// Print styling: controls hidden, labels not split across pages.
	assert.Contains(t, html, "page-break-inside: avoid")
	assert.Contains(t, html, "@media print")

	// The display value accompanies every barcode.
	for _, label := range exp.Labels {
		assert.Contains(t, html, label.ID)
	}
}

func TestBuildPrintViewEscapesUserText(t *testing.T) {
	InitBarcodeRenderer()

	tender := singleVariantTender("<b>Shirt</b>", "White", "M", 1, []string{"Cutting"})
	tender.CustomerName = `Acme "Corp" <script>`
	exp := ExpandLabels(tender)

	html, err := BuildPrintView(tender, exp)
	assert.NoError(t, err)
	assert.NotContains(t, html, "<b>Shirt</b>")
	assert.NotContains(t, html, "<script>")
}

func TestBuildPrintViewUnknownCustomer(t *testing.T) {
	InitBarcodeRenderer()

	tender := singleVariantTender("T-Shirt", "White", "M", 1, []string{"Cutting"})
	tender.CustomerName = ""
	exp := ExpandLabels(tender)

	html, err := BuildPrintView(tender, exp)
	assert.NoError(t, err)
	assert.Contains(t, html, "Customer: Unknown customer")
}

func TestBuildPrintViewRequiresRenderer(t *testing.T) {
	original := GetBarcodeRenderer()
	defer SetBarcodeRenderer(original)
	SetBarcodeRenderer(nil)

	tender := singleVariantTender("T-Shirt", "White", "M", 1, []string{"Cutting"})
	_, err := BuildPrintView(tender, ExpandLabels(tender))
	assert.Error(t, err)
}
