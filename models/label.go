package models

import "time"

// LabelRecord is one physical barcode label to print. Records are derived
// from the tender's category tree on every expansion run and fully replaced
// on regeneration; they are never persisted or mutated.
type LabelRecord struct {
	ID          string `json:"id"` // "<runTimestampMillis>-<sequence>", unique within a run
	Category    string `json:"category"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Operation   string `json:"operation"`
	PieceNumber int    `json:"piece_number"` // 1-based garment piece within the variant
	TotalPieces int    `json:"total_pieces"` // variant quantity, shown as "piece N/M"
}

// Skip reasons reported for variants excluded from an expansion run.
const (
	SkipReasonMissingCategory = "missing category name"
	SkipReasonMissingColor    = "missing color"
	SkipReasonMissingSize     = "missing size"
	SkipReasonZeroQuantity    = "quantity not positive"
	SkipReasonNoOperations    = "no non-blank operations"
)

// SkippedVariant describes one variant that produced zero labels and why.
type SkippedVariant struct {
	CategoryID int      `json:"category_id"`
	VariantID  int      `json:"variant_id"`
	Reasons    []string `json:"reasons"`
}

// Expansion is the full result of one label expansion run.
type Expansion struct {
	Token       string           `json:"token"` // invalidates stale runs; fresh per expansion
	GeneratedAt time.Time        `json:"generated_at"`
	Labels      []LabelRecord    `json:"labels"`
	Skipped     []SkippedVariant `json:"skipped"`
	Eligible    int              `json:"eligible_variants"`
	Total       int              `json:"total_variants"`
}
