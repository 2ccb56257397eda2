package rewards

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/borla2earn/backend/pkg/enums"
)

// BORLA tokens credited per verified kilogram, by material.
var ratePerKg = map[enums.WasteKind]decimal.Decimal{
	enums.WasteKindPlastic:     decimal.NewFromInt(5),
	enums.WasteKindGlass:       decimal.NewFromInt(4),
	enums.WasteKindPaper:       decimal.NewFromInt(3),
	enums.WasteKindMetal:       decimal.NewFromInt(6),
	enums.WasteKindElectronics: decimal.NewFromInt(10),
	enums.WasteKindOrganic:     decimal.NewFromInt(2),
}

// Rate describes the token yield for a single waste kind.
type Rate struct {
	Kind        enums.WasteKind `json:"kind"`
	TokensPerKg decimal.Decimal `json:"tokens_per_kg"`
}

// RateFor returns the per-kg token rate for the kind, and whether the kind is known.
func RateFor(kind enums.WasteKind) (decimal.Decimal, bool) {
	rate, ok := ratePerKg[kind]
	return rate, ok
}

// Rates returns the full rate catalogue sorted by kind for stable output.
func Rates() []Rate {
	out := make([]Rate, 0, len(ratePerKg))
	for kind, rate := range ratePerKg {
		out = append(out, Rate{Kind: kind, TokensPerKg: rate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
