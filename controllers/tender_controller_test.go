package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/grav-clothing/grav-cms-api/config"
	"github.com/grav-clothing/grav-cms-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTenderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Tender{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// setupTenderRouter wires the tender routes the same way main does.
func setupTenderRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	v1 := router.Group("/api/cms/v1")
	{
		v1.POST("/tenders", CreateTender)
		v1.GET("/tenders", ListTenders)
		v1.GET("/tenders/:id", GetTender)
		v1.PUT("/tenders/:id", UpdateTender)
		v1.DELETE("/tenders/:id", DeleteTender)

		v1.POST("/tenders/:id/categories", AddCategory)
		v1.PATCH("/tenders/:id/categories/:categoryId", UpdateCategory)
		v1.DELETE("/tenders/:id/categories/:categoryId", RemoveCategory)
		v1.POST("/tenders/:id/categories/:categoryId/variants", AddVariant)
		v1.PATCH("/tenders/:id/categories/:categoryId/variants/:variantId", UpdateVariant)
		v1.DELETE("/tenders/:id/categories/:categoryId/variants/:variantId", RemoveVariant)
		v1.POST("/tenders/:id/categories/:categoryId/variants/:variantId/operations", AddOperation)
		v1.PUT("/tenders/:id/categories/:categoryId/variants/:variantId/operations/:index", SetOperation)
		v1.DELETE("/tenders/:id/categories/:categoryId/variants/:variantId/operations/:index", RemoveOperation)
	}

	return router
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "response should be valid JSON")
	return response
}

func createTestTender(t *testing.T, router *gin.Engine) uint {
	t.Helper()
	w := performJSON(router, "POST", "/api/cms/v1/tenders", map[string]interface{}{
		"customer_name": "Acme Textiles",
		"city":          "Karachi",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})
	return uint(data["id"].(float64))
}

func TestCreateTender(t *testing.T) {
	config.SetDB(setupTenderTestDB(t))
	router := setupTenderRouter()

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Successfully create tender",
			requestBody: map[string]interface{}{
				"customer_name": "Acme Textiles",
				"description":   "Summer collection",
				"address":       "12 Mill Road",
				"city":          "Karachi",
				"postal_code":   "74000",
				"phone":         "+92-300-1234567",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "Acme Textiles", data["customer_name"])
				assert.Equal(t, "Karachi", data["city"])

				// A fresh tender starts with one category holding one variant.
				categories := data["categories"].([]interface{})
				assert.Len(t, categories, 1)
				category := categories[0].(map[string]interface{})
				assert.Equal(t, float64(1), category["id"])
				items := category["items"].([]interface{})
				assert.Len(t, items, 1)
				item := items[0].(map[string]interface{})
				assert.Equal(t, float64(1), item["quantity"])
				operations := item["operations"].([]interface{})
				assert.Len(t, operations, 1)
			},
		},
		{
			name:           "Fail with missing customer name",
			requestBody:    map[string]interface{}{"city": "Karachi"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, "POST", "/api/cms/v1/tenders", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code)

			response := parseResponse(t, w)
			if tt.expectedError != "" {
				errObj := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errObj["code"])
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestGetTenderNotFound(t *testing.T) {
	config.SetDB(setupTenderTestDB(t))
	router := setupTenderRouter()

	w := performJSON(router, "GET", "/api/cms/v1/tenders/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	response := parseResponse(t, w)
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "TENDER_NOT_FOUND", errObj["code"])
}

func TestGetTenderInvalidID(t *testing.T) {
	config.SetDB(setupTenderTestDB(t))
	router := setupTenderRouter()

	w := performJSON(router, "GET", "/api/cms/v1/tenders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTenders(t *testing.T) {
	config.SetDB(setupTenderTestDB(t))
	router := setupTenderRouter()

	createTestTender(t, router)
	createTestTender(t, router)

	w := performJSON(router, "GET", "/api/cms/v1/tenders", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := parseResponse(t, w)
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestUpdateTenderCustomerBlock(t *testing.T) {
	config.SetDB(setupTenderTestDB(t))
	router := setupTenderRouter()
	id := createTestTender(t, router)

	w := performJSON(router, "PUT", fmt.Sprintf("/api/cms/v1/tenders/%d", id), map[string]interface{}{
		"customer_name": "Bravo Garments",
		"phone":         "+92-21-555",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Bravo Garments", data["customer_name"])
	assert.Equal(t, "+92-21-555", data["phone"])
	assert.Equal(t, "Karachi", data["city"], "unset fields stay untouched")
}

func TestDeleteTender(t *testing.T) {
	config.SetDB(setupTenderTestDB(t))
	router := setupTenderRouter()
	id := createTestTender(t, router)

	w := performJSON(router, "DELETE", fmt.Sprintf("/api/cms/v1/tenders/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, "GET", fmt.Sprintf("/api/cms/v1/tenders/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoryLifecycle(t *testing.T) {
	config.SetDB(setupTenderTestDB(t))
	router := setupTenderRouter()
	id := createTestTender(t, router)
	base := fmt.Sprintf("/api/cms/v1/tenders/%d", id)

	// Add a second category.
	w := performJSON(router, "POST", base+"/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	categories := data["categories"].([]interface{})
	assert.Len(t, categories, 2)
	assert.Equal(t, float64(2), categories[1].(map[string]interface{})["id"])

	// Name the first category.
	w = performJSON(router, "PATCH", base+"/categories/1", map[string]interface{}{
		"category_name": "T-Shirt",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	data = parseResponse(t, w)["data"].(map[string]interface{})
	categories = data["categories"].([]interface{})
	assert.Equal(t, "T-Shirt", categories[0].(map[string]interface{})["category_name"])

	// Remove the second category.
	w = performJSON(router, "DELETE", base+"/categories/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = parseResponse(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["categories"].([]interface{}), 1)

	// Removing the last category is silently refused.
	w = performJSON(router, "DELETE", base+"/categories/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = parseResponse(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["categories"].([]interface{}), 1, "last category must survive")
}

func TestVariantLifecycle(t *testing.T) {
	config.SetDB(setupTenderTestDB(t))
	router := setupTenderRouter()
	id := createTestTender(t, router)
	base := fmt.Sprintf("/api/cms/v1/tenders/%d/categories/1", id)

	// Fill in the first variant.
	w := performJSON(router, "PATCH", base+"/variants/1", map[string]interface{}{
		"color":    "White",
		"size":     "M",
		"quantity": 3,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	item := firstVariant(t, parseResponse(t, w))
	assert.Equal(t, "White", item["color"])
	assert.Equal(t, "M", item["size"])
	assert.Equal(t, float64(3), item["quantity"])

	// Quantity arrives as free text from the form; strings coerce too.
	w = performJSON(router, "PATCH", base+"/variants/1", map[string]interface{}{
		"quantity": "7",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(7), firstVariant(t, parseResponse(t, w))["quantity"])

	// Invalid quantity defaults to 1.
	w = performJSON(router, "PATCH", base+"/variants/1", map[string]interface{}{
		"quantity": "lots",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), firstVariant(t, parseResponse(t, w))["quantity"])

	// Add and remove a variant; the last one is protected.
	w = performJSON(router, "POST", base+"/variants", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = performJSON(router, "DELETE", base+"/variants/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = performJSON(router, "DELETE", base+"/variants/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	items := data["categories"].([]interface{})[0].(map[string]interface{})["items"].([]interface{})
	assert.Len(t, items, 1, "last variant must survive")
}

func TestOperationLifecycle(t *testing.T) {
	config.SetDB(setupTenderTestDB(t))
	router := setupTenderRouter()
	id := createTestTender(t, router)
	base := fmt.Sprintf("/api/cms/v1/tenders/%d/categories/1/variants/1", id)

	// Set the placeholder, then add a second operation.
	w := performJSON(router, "PUT", base+"/operations/0", map[string]interface{}{"text": "Cutting"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = performJSON(router, "POST", base+"/operations", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = performJSON(router, "PUT", base+"/operations/1", map[string]interface{}{"text": "Stitching"})
	assert.Equal(t, http.StatusOK, w.Code)

	item := firstVariant(t, parseResponse(t, w))
	operations := item["operations"].([]interface{})
	assert.Equal(t, []interface{}{"Cutting", "Stitching"}, operations)

	// Remove by index.
	w = performJSON(router, "DELETE", base+"/operations/0", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	item = firstVariant(t, parseResponse(t, w))
	assert.Equal(t, []interface{}{"Stitching"}, item["operations"].([]interface{}))

	// Removing the last operation is silently refused.
	w = performJSON(router, "DELETE", base+"/operations/0", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	item = firstVariant(t, parseResponse(t, w))
	assert.Len(t, item["operations"].([]interface{}), 1, "last operation must survive")
}

func firstVariant(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()
	data := response["data"].(map[string]interface{})
	categories := data["categories"].([]interface{})
	items := categories[0].(map[string]interface{})["items"].([]interface{})
	return items[0].(map[string]interface{})
}
