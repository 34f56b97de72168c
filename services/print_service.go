package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/grav-clothing/grav-cms-api/models"
)

// The print view is a fully self-contained document: every barcode is
// rendered server-side and embedded as a data URI, so the page needs no
// script, no external rendering library, and no fill-slots-after-a-delay
// second phase. Print styling hides the toolbar and keeps each label on a
// single page.
var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 16px; }
.header { margin-bottom: 12px; }
.header h1 { font-size: 18px; margin: 0 0 4px 0; }
.header p { font-size: 12px; margin: 2px 0; color: #333; }
.labels { display: flex; flex-wrap: wrap; }
.label { width: 220px; border: 1px dashed #bbb; margin: 4px; padding: 6px; text-align: center; page-break-inside: avoid; }
.label img { max-width: 200px; }
.label .caption { font-size: 11px; margin: 1px 0; }
.label .caption.category { font-weight: bold; }
.toolbar { margin-bottom: 12px; }
@media print {
  .toolbar, .no-print { display: none; }
  .label { border: none; }
}
</style>
</head>
<body>
<div class="toolbar no-print"><button onclick="window.print()">Print</button></div>
<div class="header">
<h1>{{.Title}}</h1>
<p>Customer: {{.Customer}}</p>
<p>Generated: {{.Generated}}</p>
</div>
<div class="labels">
{{range .Labels}}<div class="label">
<img src="{{.Image}}" alt="{{.ID}}">
<div class="caption">{{.ID}}</div>
<div class="caption category">{{.Category}}</div>
<div class="caption">{{.Color}} | {{.Size}}</div>
<div class="caption">piece {{.PieceNumber}}/{{.TotalPieces}}</div>
<div class="caption">{{.Operation}}</div>
</div>
{{end}}</div>
</body>
</html>
`))

type printLabel struct {
	models.LabelRecord
	Image template.URL
}

type printPage struct {
	Title     string
	Customer  string
	Generated string
	Labels    []printLabel
}

// BuildPrintView composes the browser print view for one expansion run.
func BuildPrintView(t *models.Tender, exp models.Expansion) (string, error) {
	renderer := GetBarcodeRenderer()
	if renderer == nil {
		return "", fmt.Errorf("barcode renderer is not initialized")
	}

	page := printPage{
		Title:     documentTitle,
		Customer:  customerDisplayName(t),
		Generated: exp.GeneratedAt.Format("Jan 2, 2006 15:04"),
		Labels:    make([]printLabel, 0, len(exp.Labels)),
	}

	for _, label := range exp.Labels {
		png, err := renderer.RenderCode128(label.ID)
		if err != nil {
			return "", fmt.Errorf("failed to render label %s: %w", label.ID, err)
		}
		page.Labels = append(page.Labels, printLabel{
			LabelRecord: label,
			Image:       template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
		})
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("failed to compose print view: %w", err)
	}
	return buf.String(), nil
}
