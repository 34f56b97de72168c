package testutil

import (
	"testing"

	"github.com/grav-clothing/grav-cms-api/models"
	"gorm.io/gorm"
)

// NewTenderFixture returns an unsaved tender with a single fully filled-in
// category. One variant of quantity 2 with two operations expands to 4 labels.
func NewTenderFixture(customerName string) models.Tender {
	return models.Tender{
		CustomerName: customerName,
		Description:  "Summer collection run",
		Address:      "14 Mill Road",
		City:         "Manchester",
		PostalCode:   "M1 2AB",
		Phone:        "+44 161 555 0142",
		Categories: []models.ClothCategory{
			{
				ID:           1,
				CategoryName: "T-Shirt",
				Items: []models.ItemVariant{
					{
						ID:         1,
						Color:      "White",
						Size:       "M",
						Quantity:   2,
						Operations: []string{"Cutting", "Stitching"},
					},
				},
			},
		},
	}
}

// CreateTenderFixture persists a fixture tender and returns it.
func CreateTenderFixture(t *testing.T, db *gorm.DB, customerName string) models.Tender {
	t.Helper()

	tender := NewTenderFixture(customerName)
	if err := db.Create(&tender).Error; err != nil {
		t.Fatalf("Failed to create tender fixture: %v", err)
	}
	return tender
}

// AddIneligibleVariant appends a variant that the label expander must skip
// (blank color) to the tender's first category and saves the change.
func AddIneligibleVariant(t *testing.T, db *gorm.DB, tender *models.Tender) {
	t.Helper()

	category := &tender.Categories[0]
	category.Items = append(category.Items, models.ItemVariant{
		ID:         len(category.Items) + 1,
		Color:      "",
		Size:       "L",
		Quantity:   3,
		Operations: []string{"Cutting"},
	})

	if err := db.Save(tender).Error; err != nil {
		t.Fatalf("Failed to save tender fixture: %v", err)
	}
}
