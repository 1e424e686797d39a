package enums

import "fmt"

// MetalType identifies the metal a piece is crafted from.
type MetalType string

const (
	MetalTypeGold18K   MetalType = "gold-18k"
	MetalTypeSilver925 MetalType = "silver-925"
	MetalTypePlatinum  MetalType = "platinum"
	MetalTypeRoseGold  MetalType = "rose-gold"
)

var validMetalTypes = []MetalType{
	MetalTypeGold18K,
	MetalTypeSilver925,
	MetalTypePlatinum,
	MetalTypeRoseGold,
}

// String implements fmt.Stringer.
func (m MetalType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MetalType.
func (m MetalType) IsValid() bool {
	for _, candidate := range validMetalTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// Label returns the display name used by the storefront.
func (m MetalType) Label() string {
	switch m {
	case MetalTypeGold18K:
		return "Gold 18K"
	case MetalTypeSilver925:
		return "Silver 925"
	case MetalTypePlatinum:
		return "Platinum"
	case MetalTypeRoseGold:
		return "Rose Gold"
	}
	return string(m)
}

// ParseMetalType converts raw input into a MetalType.
func ParseMetalType(value string) (MetalType, error) {
	for _, candidate := range validMetalTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid metal type %q", value)
}
