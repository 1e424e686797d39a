package enums

import "fmt"

// StoneType identifies the stone set into a piece.
type StoneType string

const (
	StoneTypeDiamond  StoneType = "diamond"
	StoneTypeRuby     StoneType = "ruby"
	StoneTypeSapphire StoneType = "sapphire"
	StoneTypeEmerald  StoneType = "emerald"
	StoneTypePearl    StoneType = "pearl"
	StoneTypeNone     StoneType = "no-stone"
)

var validStoneTypes = []StoneType{
	StoneTypeDiamond,
	StoneTypeRuby,
	StoneTypeSapphire,
	StoneTypeEmerald,
	StoneTypePearl,
	StoneTypeNone,
}

// String implements fmt.Stringer.
func (s StoneType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StoneType.
func (s StoneType) IsValid() bool {
	for _, candidate := range validStoneTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStoneType converts raw input into a StoneType.
func ParseStoneType(value string) (StoneType, error) {
	for _, candidate := range validStoneTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stone type %q", value)
}
