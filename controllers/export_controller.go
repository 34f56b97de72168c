package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grav-clothing/grav-cms-api/services"
)

// GenerateLabels handles POST /api/cms/v1/tenders/:id/labels - runs a fresh
// label expansion, replacing any previous run. The response reports how many
// variants produced labels and why the rest were skipped instead of failing
// silently.
func GenerateLabels(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}

	svc := services.GetExportService()
	if svc == nil {
		exportServiceUnavailable(c)
		return
	}

	exp := svc.Generate(tender)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": services.SkipSummary(exp),
		"data": gin.H{
			"token":        exp.Token,
			"generated_at": exp.GeneratedAt,
			"label_count":  len(exp.Labels),
			"labels":       exp.Labels,
			"skipped":      exp.Skipped,
		},
	})
}

// GetLabels handles GET /api/cms/v1/tenders/:id/labels - returns the current
// expansion and pipeline state without regenerating.
func GetLabels(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}

	svc := services.GetExportService()
	if svc == nil {
		exportServiceUnavailable(c)
		return
	}

	exp, state := svc.Current(tender.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"state":       state,
			"token":       exp.Token,
			"label_count": len(exp.Labels),
			"labels":      exp.Labels,
			"skipped":     exp.Skipped,
		},
	})
}

// DownloadLabelPDF handles GET /api/cms/v1/tenders/:id/labels/pdf - streams
// the paginated label document as a direct download. If no labels have been
// generated yet, generation runs first (synchronously, no retry timer).
func DownloadLabelPDF(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}

	svc := services.GetExportService()
	if svc == nil {
		exportServiceUnavailable(c)
		return
	}

	data, filename, exp, err := svc.ExportPDF(tender)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_FAILED",
				"message": "Failed to compose label document",
			},
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Label-Token", exp.Token)
	c.Data(http.StatusOK, "application/pdf", data)
}

// PrintLabels handles GET /api/cms/v1/tenders/:id/labels/print - returns the
// self-contained print view. All barcodes are embedded as data URIs, so the
// page prints correctly without loading any rendering script.
func PrintLabels(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}

	svc := services.GetExportService()
	if svc == nil {
		exportServiceUnavailable(c)
		return
	}

	html, exp, err := svc.PrintView(tender)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_FAILED",
				"message": "Failed to compose print view",
			},
		})
		return
	}

	c.Header("X-Label-Token", exp.Token)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// ArchiveLabels handles POST /api/cms/v1/tenders/:id/labels/archive - stores
// the label document in S3 and returns a presigned URL for it.
func ArchiveLabels(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}

	svc := services.GetExportService()
	if svc == nil {
		exportServiceUnavailable(c)
		return
	}

	key, url, err := svc.Archive(tender)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ARCHIVE_FAILED",
				"message": "Failed to archive label document",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"s3_key": key,
			"url":    url,
		},
	})
}

// DownloadQR handles GET /api/cms/v1/qr?data=<string> - encodes an arbitrary
// string (typically a page URL) as a QR code PNG and offers it as a download.
func DownloadQR(c *gin.Context) {
	payload := c.Query("data")
	if payload == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Query parameter 'data' is required",
			},
		})
		return
	}

	renderer := services.GetBarcodeRenderer()
	if renderer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_UNAVAILABLE",
				"message": "Barcode renderer is not initialized",
			},
		})
		return
	}

	png, err := renderer.RenderQR(payload, services.QRSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_FAILED",
				"message": "Failed to render QR code",
			},
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="qr-code.png"`)
	c.Data(http.StatusOK, "image/png", png)
}

func exportServiceUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "SERVICE_UNAVAILABLE",
			"message": "Export service is not initialized",
		},
	})
}
