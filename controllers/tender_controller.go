package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/grav-clothing/grav-cms-api/config"
	"github.com/grav-clothing/grav-cms-api/models"
	"github.com/grav-clothing/grav-cms-api/services"
)

// CreateTenderRequest represents the request body for registering a tender
type CreateTenderRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
	Phone        string `json:"phone"`
}

// UpdateTenderRequest represents a partial update of the customer block
type UpdateTenderRequest struct {
	CustomerName *string `json:"customer_name"`
	Description  *string `json:"description"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	PostalCode   *string `json:"postal_code"`
	Phone        *string `json:"phone"`
}

// UpdateCategoryRequest updates category fields
type UpdateCategoryRequest struct {
	CategoryName *string `json:"category_name"`
}

// UpdateVariantRequest updates variant fields. Quantity is accepted as raw
// JSON because the tender form submits it as either a number or free text;
// anything non-numeric or non-positive is coerced to 1.
type UpdateVariantRequest struct {
	Color    *string         `json:"color"`
	Size     *string         `json:"size"`
	Quantity json.RawMessage `json:"quantity"`
}

// SetOperationRequest replaces one operation's text (blank is allowed while
// the user is still editing)
type SetOperationRequest struct {
	Text string `json:"text"`
}

// CreateTender handles POST /api/cms/v1/tenders - registers a new tender
// with one empty category/variant row ready for editing
func CreateTender(c *gin.Context) {
	var req CreateTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	tender := models.Tender{
		CustomerName: req.CustomerName,
		Description:  req.Description,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Phone:        req.Phone,
		Categories:   services.NewTenderCategories(),
	}

	db := config.GetDB()
	if err := db.Create(&tender).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create tender",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    tender,
	})
}

// ListTenders handles GET /api/cms/v1/tenders
func ListTenders(c *gin.Context) {
	db := config.GetDB()

	var tenders []models.Tender
	if err := db.Order("created_at DESC").Find(&tenders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list tenders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tenders,
	})
}

// GetTender handles GET /api/cms/v1/tenders/:id
func GetTender(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tender,
	})
}

// UpdateTender handles PUT /api/cms/v1/tenders/:id - partial update of the
// customer block. The label pipeline is invalidated since the document
// header derives from it.
func UpdateTender(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}

	var req UpdateTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.CustomerName != nil {
		tender.CustomerName = *req.CustomerName
	}
	if req.Description != nil {
		tender.Description = *req.Description
	}
	if req.Address != nil {
		tender.Address = *req.Address
	}
	if req.City != nil {
		tender.City = *req.City
	}
	if req.PostalCode != nil {
		tender.PostalCode = *req.PostalCode
	}
	if req.Phone != nil {
		tender.Phone = *req.Phone
	}

	saveTender(c, tender)
}

// DeleteTender handles DELETE /api/cms/v1/tenders/:id
func DeleteTender(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := db.Delete(tender).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete tender",
			},
		})
		return
	}

	invalidatePipeline(tender.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tender deleted",
	})
}

// AddCategory handles POST /api/cms/v1/tenders/:id/categories
func AddCategory(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}
	services.AddCategory(tender)
	saveTender(c, tender)
}

// RemoveCategory handles DELETE /api/cms/v1/tenders/:id/categories/:categoryId.
// Removing the last category is a silent no-op; the response still carries
// the (unchanged) tender.
func RemoveCategory(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}
	categoryID, ok := pathInt(c, "categoryId")
	if !ok {
		return
	}
	services.RemoveCategory(tender, categoryID)
	saveTender(c, tender)
}

// UpdateCategory handles PATCH /api/cms/v1/tenders/:id/categories/:categoryId
func UpdateCategory(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}
	categoryID, ok := pathInt(c, "categoryId")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.CategoryName != nil {
		services.SetCategoryName(tender, categoryID, *req.CategoryName)
	}
	saveTender(c, tender)
}

// AddVariant handles POST .../categories/:categoryId/variants
func AddVariant(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}
	categoryID, ok := pathInt(c, "categoryId")
	if !ok {
		return
	}
	services.AddVariant(tender, categoryID)
	saveTender(c, tender)
}

// RemoveVariant handles DELETE .../categories/:categoryId/variants/:variantId
func RemoveVariant(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}
	categoryID, ok := pathInt(c, "categoryId")
	if !ok {
		return
	}
	variantID, ok := pathInt(c, "variantId")
	if !ok {
		return
	}
	services.RemoveVariant(tender, categoryID, variantID)
	saveTender(c, tender)
}

// UpdateVariant handles PATCH .../categories/:categoryId/variants/:variantId
func UpdateVariant(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}
	categoryID, ok := pathInt(c, "categoryId")
	if !ok {
		return
	}
	variantID, ok := pathInt(c, "variantId")
	if !ok {
		return
	}

	var req UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Color != nil {
		services.SetVariantColor(tender, categoryID, variantID, *req.Color)
	}
	if req.Size != nil {
		services.SetVariantSize(tender, categoryID, variantID, *req.Size)
	}
	if len(req.Quantity) > 0 {
		services.SetVariantQuantity(tender, categoryID, variantID, coerceQuantityJSON(req.Quantity))
	}
	saveTender(c, tender)
}

// AddOperation handles POST .../variants/:variantId/operations
func AddOperation(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}
	categoryID, ok := pathInt(c, "categoryId")
	if !ok {
		return
	}
	variantID, ok := pathInt(c, "variantId")
	if !ok {
		return
	}
	services.AddOperation(tender, categoryID, variantID)
	saveTender(c, tender)
}

// SetOperation handles PUT .../variants/:variantId/operations/:index
func SetOperation(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}
	categoryID, ok := pathInt(c, "categoryId")
	if !ok {
		return
	}
	variantID, ok := pathInt(c, "variantId")
	if !ok {
		return
	}
	index, ok := pathInt(c, "index")
	if !ok {
		return
	}

	var req SetOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	services.SetOperation(tender, categoryID, variantID, index, req.Text)
	saveTender(c, tender)
}

// RemoveOperation handles DELETE .../variants/:variantId/operations/:index.
// Removal is by index so duplicate operation names stay independently
// removable; removing the last operation is a silent no-op.
func RemoveOperation(c *gin.Context) {
	tender, ok := loadTender(c)
	if !ok {
		return
	}
	categoryID, ok := pathInt(c, "categoryId")
	if !ok {
		return
	}
	variantID, ok := pathInt(c, "variantId")
	if !ok {
		return
	}
	index, ok := pathInt(c, "index")
	if !ok {
		return
	}

	services.RemoveOperation(tender, categoryID, variantID, index)
	saveTender(c, tender)
}

// loadTender resolves the :id path parameter to a tender row, writing the
// error response itself when the id is malformed or unknown.
func loadTender(c *gin.Context) (*models.Tender, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid tender id",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var tender models.Tender
	if err := db.First(&tender, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TENDER_NOT_FOUND",
				"message": "Tender not found",
			},
		})
		return nil, false
	}
	return &tender, true
}

// saveTender persists the tender, drops any stale label pipeline for it,
// and writes the success envelope.
func saveTender(c *gin.Context, tender *models.Tender) {
	db := config.GetDB()
	if err := db.Save(tender).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save tender",
			},
		})
		return
	}

	invalidatePipeline(tender.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tender,
	})
}

func invalidatePipeline(tenderID uint) {
	if svc := services.GetExportService(); svc != nil {
		svc.Invalidate(tenderID)
	}
}

// pathInt parses an integer path parameter, writing the error response
// itself on failure.
func pathInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid " + name + " parameter",
			},
		})
		return 0, false
	}
	return v, true
}

// coerceQuantityJSON accepts a JSON number or string and coerces it to a
// positive integer, defaulting to 1.
func coerceQuantityJSON(raw json.RawMessage) int {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 1 {
			return 1
		}
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return services.CoerceQuantity(s)
	}
	return 1
}
