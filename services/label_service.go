package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grav-clothing/grav-cms-api/models"
)

// timeNow is swapped out in tests to pin label ids.
var timeNow = time.Now

// ExpandLabels derives the flat label list for a tender's current category
// tree. One run shares a single timestamp (milliseconds, captured once at
// the start) and a single 1-based sequence counter across all categories, so
// ids are unique within the run regardless of timestamp collisions.
//
// A variant is skipped entirely unless its color, size, and parent category
// name are non-blank and its quantity is positive. Skipped variants never
// consume sequence numbers; they are reported in the result instead of being
// dropped silently. Operations with blank (trimmed) text do not count: an
// eligible variant emits quantity * operationsCount labels, cycling through
// the non-blank operations in order and bumping the piece number each time
// the cycle completes a full pass.
func ExpandLabels(t *models.Tender) models.Expansion {
	now := timeNow()
	runStamp := now.UnixMilli()
	sequence := 1

	exp := models.Expansion{
		Token:       uuid.NewString(),
		GeneratedAt: now,
		Labels:      []models.LabelRecord{},
		Skipped:     []models.SkippedVariant{},
	}

	for _, cat := range t.Categories {
		for _, item := range cat.Items {
			exp.Total++

			operations := nonBlankOperations(item.Operations)
			reasons := skipReasons(cat, item, operations)
			if len(reasons) > 0 {
				exp.Skipped = append(exp.Skipped, models.SkippedVariant{
					CategoryID: cat.ID,
					VariantID:  item.ID,
					Reasons:    reasons,
				})
				continue
			}
			exp.Eligible++

			totalBarcodes := item.Quantity * len(operations)
			for i := 0; i < totalBarcodes; i++ {
				operationIndex := i % len(operations)
				pieceNumber := i/len(operations) + 1

				exp.Labels = append(exp.Labels, models.LabelRecord{
					ID:          fmt.Sprintf("%d-%d", runStamp, sequence),
					Category:    cat.CategoryName,
					Color:       item.Color,
					Size:        item.Size,
					Operation:   operations[operationIndex],
					PieceNumber: pieceNumber,
					TotalPieces: item.Quantity,
				})
				sequence++
			}
		}
	}

	return exp
}

// SkipSummary renders a one-line diagnostic for an expansion, e.g.
// "3 of 5 variants produced labels; 2 skipped".
func SkipSummary(exp models.Expansion) string {
	if len(exp.Skipped) == 0 {
		return fmt.Sprintf("%d of %d variants produced labels", exp.Eligible, exp.Total)
	}
	return fmt.Sprintf("%d of %d variants produced labels; %d skipped",
		exp.Eligible, exp.Total, len(exp.Skipped))
}

func nonBlankOperations(operations []string) []string {
	var out []string
	for _, op := range operations {
		if strings.TrimSpace(op) != "" {
			out = append(out, op)
		}
	}
	return out
}

func skipReasons(cat models.ClothCategory, item models.ItemVariant, operations []string) []string {
	var reasons []string
	if strings.TrimSpace(cat.CategoryName) == "" {
		reasons = append(reasons, models.SkipReasonMissingCategory)
	}
	if strings.TrimSpace(item.Color) == "" {
		reasons = append(reasons, models.SkipReasonMissingColor)
	}
	if strings.TrimSpace(item.Size) == "" {
		reasons = append(reasons, models.SkipReasonMissingSize)
	}
	if item.Quantity <= 0 {
		reasons = append(reasons, models.SkipReasonZeroQuantity)
	}
	if len(operations) == 0 {
		reasons = append(reasons, models.SkipReasonNoOperations)
	}
	return reasons
}
