package utils

import (
	"strings"
	"unicode"
)

// SKUPrefix picks the prefix used for generated variant SKUs. The base SKU
// wins when present; otherwise a 3-character uppercase prefix is derived
// from the product name, falling back to "PRD" when the name is empty too.
func SKUPrefix(baseSKU, name string) string {
	if s := strings.TrimSpace(baseSKU); s != "" {
		return s
	}

	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() >= 3 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "PRD"
	}
	return b.String()
}

// VariantSKU composes the per-variant SKU: {prefix}-{firstLetterOfColor}{size}.
// e.g. prefix "SHI", color "Red", size "S" -> "SHI-RS"
func VariantSKU(prefix, color, size string) string {
	initial := ""
	for _, r := range color {
		initial = string(unicode.ToUpper(r))
		break
	}
	return prefix + "-" + initial + size
}
