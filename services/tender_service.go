package services

import (
	"strconv"
	"strings"

	"github.com/grav-clothing/grav-cms-api/models"
)

// Order model builder: mutation helpers over a tender's category tree.
//
// Ids are sequential within their parent (current count + 1) and are never
// renumbered after a deletion. Removal of the last remaining category,
// variant, or operation is a silent no-op so the form always keeps at least
// one editable row; no error is signaled for any guard condition.

// NewTenderCategories returns the initial category tree for a fresh tender:
// one category with one default variant.
func NewTenderCategories() []models.ClothCategory {
	return []models.ClothCategory{newCategory(1)}
}

func newCategory(id int) models.ClothCategory {
	return models.ClothCategory{
		ID:    id,
		Items: []models.ItemVariant{newVariant(1)},
	}
}

func newVariant(id int) models.ItemVariant {
	return models.ItemVariant{
		ID:         id,
		Quantity:   1,
		Operations: []string{""},
	}
}

// AddCategory appends a new category with one default variant.
func AddCategory(t *models.Tender) {
	t.Categories = append(t.Categories, newCategory(len(t.Categories)+1))
}

// RemoveCategory removes the matching category. Refuses silently when only
// one category remains; surviving ids keep their values.
func RemoveCategory(t *models.Tender, categoryID int) {
	if len(t.Categories) <= 1 {
		return
	}
	for i, cat := range t.Categories {
		if cat.ID == categoryID {
			t.Categories = append(t.Categories[:i], t.Categories[i+1:]...)
			return
		}
	}
}

// AddVariant appends a new default variant to the named category.
func AddVariant(t *models.Tender, categoryID int) {
	cat := findCategory(t, categoryID)
	if cat == nil {
		return
	}
	cat.Items = append(cat.Items, newVariant(len(cat.Items)+1))
}

// RemoveVariant removes the matching variant. Refuses silently when the
// category has only one variant.
func RemoveVariant(t *models.Tender, categoryID, variantID int) {
	cat := findCategory(t, categoryID)
	if cat == nil || len(cat.Items) <= 1 {
		return
	}
	for i, item := range cat.Items {
		if item.ID == variantID {
			cat.Items = append(cat.Items[:i], cat.Items[i+1:]...)
			return
		}
	}
}

// AddOperation appends an empty operation entry to the variant.
func AddOperation(t *models.Tender, categoryID, variantID int) {
	v := findVariant(t, categoryID, variantID)
	if v == nil {
		return
	}
	v.Operations = append(v.Operations, "")
}

// RemoveOperation removes the operation at the given index. Removal is by
// index, not by value, so duplicate operation names stay independently
// removable. Refuses silently when only one operation remains.
func RemoveOperation(t *models.Tender, categoryID, variantID, index int) {
	v := findVariant(t, categoryID, variantID)
	if v == nil || len(v.Operations) <= 1 {
		return
	}
	if index < 0 || index >= len(v.Operations) {
		return
	}
	v.Operations = append(v.Operations[:index], v.Operations[index+1:]...)
}

// SetCategoryName replaces the category name.
func SetCategoryName(t *models.Tender, categoryID int, name string) {
	if cat := findCategory(t, categoryID); cat != nil {
		cat.CategoryName = name
	}
}

// SetVariantColor replaces the variant color.
func SetVariantColor(t *models.Tender, categoryID, variantID int, color string) {
	if v := findVariant(t, categoryID, variantID); v != nil {
		v.Color = color
	}
}

// SetVariantSize replaces the variant size.
func SetVariantSize(t *models.Tender, categoryID, variantID int, size string) {
	if v := findVariant(t, categoryID, variantID); v != nil {
		v.Size = size
	}
}

// SetVariantQuantity replaces the variant quantity, coercing non-positive
// values to 1.
func SetVariantQuantity(t *models.Tender, categoryID, variantID, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if v := findVariant(t, categoryID, variantID); v != nil {
		v.Quantity = quantity
	}
}

// SetOperation replaces the operation text at the given index.
func SetOperation(t *models.Tender, categoryID, variantID, index int, text string) {
	v := findVariant(t, categoryID, variantID)
	if v == nil || index < 0 || index >= len(v.Operations) {
		return
	}
	v.Operations[index] = text
}

// CoerceQuantity parses free-form quantity input. Invalid or non-positive
// input defaults to 1.
func CoerceQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func findCategory(t *models.Tender, categoryID int) *models.ClothCategory {
	for i := range t.Categories {
		if t.Categories[i].ID == categoryID {
			return &t.Categories[i]
		}
	}
	return nil
}

func findVariant(t *models.Tender, categoryID, variantID int) *models.ItemVariant {
	cat := findCategory(t, categoryID)
	if cat == nil {
		return nil
	}
	for i := range cat.Items {
		if cat.Items[i].ID == variantID {
			return &cat.Items[i]
		}
	}
	return nil
}
