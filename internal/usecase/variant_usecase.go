package usecase

import (
	"storeforms-backend/internal/domain"
	"storeforms-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default pricing derivation for generated variants. MRP and purchase
// price are fixed multiples of the base selling price until the row is
// explicitly overridden.
var (
	mrpFactor      = decimal.RequireFromString("1.2")
	purchaseFactor = decimal.RequireFromString("0.7")
)

const (
	defaultGSTPercent = 18
	defaultQuantity   = 10
)

// VariantUsecase computes the color x size variant matrix. All operations
// are pure transformations of in-memory state.
type VariantUsecase struct{}

func NewVariantUsecase() *VariantUsecase {
	return &VariantUsecase{}
}

// Generate produces one variant per (color, size) combination, colors as
// the outer loop and sizes as the inner loop, so output order is
// deterministic for a given pair of attribute sets. Either set being empty
// fails with ErrInsufficientSelection. The caller replaces any prior
// collection in full with the returned rows.
func (u *VariantUsecase) Generate(colors, sizes domain.AttributeSet, base *domain.ProductDraft) ([]domain.Variant, error) {
	if len(colors) == 0 || len(sizes) == 0 {
		return nil, domain.ErrInsufficientSelection
	}

	prefix := utils.SKUPrefix(base.Basic.SKU, base.Basic.Name)
	selling := base.Pricing.SellingPrice

	out := make([]domain.Variant, 0, len(colors)*len(sizes))
	for _, color := range colors {
		for _, size := range sizes {
			out = append(out, domain.Variant{
				ID:            uuid.New().String(),
				Color:         color,
				Size:          size,
				SKU:           utils.VariantSKU(prefix, color, size),
				SellingPrice:  selling,
				MRP:           selling.Mul(mrpFactor),
				PurchasePrice: selling.Mul(purchaseFactor),
				GSTPercent:    defaultGSTPercent,
				Quantity:      defaultQuantity,
			})
		}
	}
	return out, nil
}

// Remove deletes exactly one variant by ID, returning a fresh slice so
// the caller's input is never rewritten in place. The second return
// reports whether the ID existed; removal of an absent ID is a no-op.
func (u *VariantUsecase) Remove(variants []domain.Variant, id string) ([]domain.Variant, bool) {
	for i, v := range variants {
		if v.ID == id {
			out := make([]domain.Variant, 0, len(variants)-1)
			out = append(out, variants[:i]...)
			out = append(out, variants[i+1:]...)
			return out, true
		}
	}
	return variants, false
}
