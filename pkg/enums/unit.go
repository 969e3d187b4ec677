package enums

import "fmt"

// ItemUnit describes the allowed values for the `unit` column in items.
type ItemUnit string

const (
	ItemUnitKilogram   ItemUnit = "kg"
	ItemUnitGram       ItemUnit = "g"
	ItemUnitLiter      ItemUnit = "l"
	ItemUnitMilliliter ItemUnit = "ml"
	ItemUnitPiece      ItemUnit = "piece"
	ItemUnitPack       ItemUnit = "pack"
	ItemUnitDozen      ItemUnit = "dozen"
)

// DefaultItemUnit applies when an item is created without a unit.
const DefaultItemUnit = ItemUnitPiece

var validItemUnits = []ItemUnit{
	ItemUnitKilogram,
	ItemUnitGram,
	ItemUnitLiter,
	ItemUnitMilliliter,
	ItemUnitPiece,
	ItemUnitPack,
	ItemUnitDozen,
}

// String implements fmt.Stringer.
func (u ItemUnit) String() string {
	return string(u)
}

// IsValid reports whether the value matches the canonical item unit enum.
func (u ItemUnit) IsValid() bool {
	for _, candidate := range validItemUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseItemUnit converts the raw string to ItemUnit.
func ParseItemUnit(value string) (ItemUnit, error) {
	for _, candidate := range validItemUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item unit %q", value)
}

// ItemUnitValues lists the accepted units in declaration order.
func ItemUnitValues() []string {
	out := make([]string, 0, len(validItemUnits))
	for _, u := range validItemUnits {
		out = append(out, string(u))
	}
	return out
}
