package enums

import "fmt"

// WasteKind identifies a category from the fixed waste catalogue.
type WasteKind string

const (
	WasteKindPlastic     WasteKind = "plastic"
	WasteKindGlass       WasteKind = "glass"
	WasteKindPaper       WasteKind = "paper"
	WasteKindMetal       WasteKind = "metal"
	WasteKindElectronics WasteKind = "electronics"
	WasteKindOrganic     WasteKind = "organic"
)

var validWasteKinds = []WasteKind{
	WasteKindPlastic,
	WasteKindGlass,
	WasteKindPaper,
	WasteKindMetal,
	WasteKindElectronics,
	WasteKindOrganic,
}

// String implements fmt.Stringer.
func (w WasteKind) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WasteKind.
func (w WasteKind) IsValid() bool {
	for _, candidate := range validWasteKinds {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWasteKind converts raw input into a WasteKind.
func ParseWasteKind(value string) (WasteKind, error) {
	for _, candidate := range validWasteKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid waste kind %q", value)
}

// WasteKinds returns the catalogue in declaration order.
func WasteKinds() []WasteKind {
	return append([]WasteKind(nil), validWasteKinds...)
}
