package models

import (
	"time"

	"gorm.io/gorm"
)

// Tender represents one tender registration in the system. The customer
// block is captured as-is from the tender form; the category tree is stored
// as a JSON document because category and variant ids are scoped to the
// tender (sequential within their parent, never renumbered), which an
// autoincrement schema cannot express.
type Tender struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CustomerName string          `gorm:"not null" json:"customer_name"`
	Description  string          `json:"description"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	PostalCode   string          `json:"postal_code"`
	Phone        string          `json:"phone"`
	Categories   []ClothCategory `gorm:"serializer:json" json:"categories"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Tender model
func (Tender) TableName() string {
	return "tenders"
}

// ClothCategory is one product line in a tender (e.g. "T-Shirt").
// A category always keeps at least one item variant.
type ClothCategory struct {
	ID           int           `json:"id"` // count+1 at creation; survivors keep their ids after a removal
	CategoryName string        `json:"category_name"`
	Items        []ItemVariant `json:"items"`
}

// ItemVariant is one color/size combination within a category.
// Its id is unique within the parent category only; lookups must always be
// scoped by (category id, variant id). A variant always keeps at least one
// operation entry, which may be blank while the user is still typing.
type ItemVariant struct {
	ID         int      `json:"id"`
	Color      string   `json:"color"`
	Quantity   int      `json:"quantity"`
	Size       string   `json:"size"`
	Operations []string `json:"operations"`
}
