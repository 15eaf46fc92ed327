package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AttributeSet is an ordered, duplicate-free list of variant dimension values
// (e.g. colors or sizes). Order is insertion order and is preserved so that
// variant generation stays deterministic.
type AttributeSet []string

// Contains reports whether label is a member of the set (case-sensitive).
func (s AttributeSet) Contains(label string) bool {
	for _, l := range s {
		if l == label {
			return true
		}
	}
	return false
}

// Toggle removes label if present, otherwise appends it. Order of the other
// elements is unchanged, so toggling twice is a no-op.
func (s *AttributeSet) Toggle(label string) {
	for i, l := range *s {
		if l == label {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return
		}
	}
	*s = append(*s, label)
}

// Add appends a custom label. Whitespace is trimmed; an empty result is a
// silent no-op, an exact duplicate fails with ErrDuplicateLabel and leaves
// the set unchanged.
func (s *AttributeSet) Add(raw string) error {
	label := strings.TrimSpace(raw)
	if label == "" {
		return nil
	}
	if s.Contains(label) {
		return ErrDuplicateLabel
	}
	*s = append(*s, label)
	return nil
}

// Clone returns an independent copy of the set.
func (s AttributeSet) Clone() AttributeSet {
	if s == nil {
		return nil
	}
	out := make(AttributeSet, len(s))
	copy(out, s)
	return out
}

// Variant is one generated (color, size) row of the variant matrix. Identity
// is the ID; the (Color, Size) pair is unique per generation because the
// cartesian product de-duplicates through AttributeSet membership.
type Variant struct {
	ID            string          `json:"id"`
	Color         string          `json:"color"`
	Size          string          `json:"size"`
	SKU           string          `json:"sku"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	MRP           decimal.Decimal `json:"mrp"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	GSTPercent    int             `json:"gstPercent"`
	Quantity      int             `json:"quantity"`
	Images        []string        `json:"images"`
}

// --- Product editor field groups (one per wizard step) ---

type BasicFields struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	SKU         string `json:"sku" validate:"omitempty,max=64"`
	Description string `json:"description" validate:"max=5000"`
	Brand       string `json:"brand" validate:"max=100"`
}

type PricingFields struct {
	SellingPrice  decimal.Decimal `json:"sellingPrice" validate:"gte=0"`
	MRP           decimal.Decimal `json:"mrp" validate:"gte=0"`
	PurchasePrice decimal.Decimal `json:"purchasePrice" validate:"gte=0"`
	GSTPercent    int             `json:"gstPercent" validate:"gte=0,lte=100"`
}

type InventoryFields struct {
	Quantity          int `json:"quantity" validate:"gte=0"`
	LowStockThreshold int `json:"lowStockThreshold" validate:"gte=0"`
}

type CategoryFields struct {
	CategoryID string `json:"categoryId" validate:"required"`
}

type MediaFields struct {
	Images []string `json:"images" validate:"max=12,dive,url"`
}

type VariantFields struct {
	HasVariants bool         `json:"hasVariants"`
	Colors      AttributeSet `json:"colors"`
	Sizes       AttributeSet `json:"sizes"`
	Variants    []Variant    `json:"variants"`
}

// ProductDraft is the full in-progress product form. ProductID is set when
// the session edits an existing product rather than creating one.
type ProductDraft struct {
	ProductID string          `json:"productId,omitempty"`
	Basic     BasicFields     `json:"basic"`
	Pricing   PricingFields   `json:"pricing"`
	Inventory InventoryFields `json:"inventory"`
	Category  CategoryFields  `json:"category"`
	Media     MediaFields     `json:"media"`
	Variant   VariantFields   `json:"variants"`
}

// Category is the upstream catalog category as returned by the category
// list service.
type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ParentID *string `json:"parentId"`
}
